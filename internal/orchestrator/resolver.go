package orchestrator

import (
	"github.com/flightdata/navdbc/internal/geo"
)

// navaidResolver implements procedure.FixResolver over whatever navaid
// positions the current load path has already staged (spec §4.10's
// three-step preference order). Sources that carry no separate navaid
// table (the relational adapter streams only airports/runways/airways/
// procedures) build an empty resolver, which degrades cleanly: every
// lookup falls through to Synthesize, returning the leg's own recorded
// position -- exactly what the relational adapter's rows already carry.
type navaidResolver struct {
	byIdentRegion map[string]geo.Position
	byIdent       map[string][]geo.Position
}

func newNavaidResolver(positions []navaidPos) *navaidResolver {
	r := &navaidResolver{
		byIdentRegion: make(map[string]geo.Position, len(positions)),
		byIdent:       make(map[string][]geo.Position, len(positions)),
	}
	for _, p := range positions {
		r.byIdentRegion[p.Ident+"|"+p.Region] = p.Position
		r.byIdent[p.Ident] = append(r.byIdent[p.Ident], p.Position)
	}
	return r
}

func (r *navaidResolver) ByIdentRegionType(ident, region string) (geo.Position, bool) {
	p, ok := r.byIdentRegion[ident+"|"+region]
	return p, ok
}

func (r *navaidResolver) NearestByIdent(ident string, near geo.Position) (geo.Position, bool) {
	candidates, ok := r.byIdent[ident]
	if !ok || len(candidates) == 0 {
		return geo.Position{}, false
	}
	best := candidates[0]
	bestDist := geo.DistanceNM(near, best)
	for _, c := range candidates[1:] {
		if d := geo.DistanceNM(near, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

func (r *navaidResolver) Synthesize(ident string, at geo.Position) geo.Position {
	return at
}
