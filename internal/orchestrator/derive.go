package orchestrator

import (
	"context"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/flightdata/navdbc/internal/ils"
	"github.com/flightdata/navdbc/internal/magvar"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/runway"
	"github.com/flightdata/navdbc/internal/tacan"
)

// derived holds the runways derive pairs from every airport's staged
// runway ends (spec §4.5), keyed by airport identifier.
type derived struct {
	runwaysByAirport map[string][]navdata.Runway
}

// derive runs the passes spec §4.12 groups as "derived-value passes":
// runway pairing and airport bounding rectangles (§4.5), magnetic
// variation (§4.8), TACAN channels (§4.9), and localizer feather
// polygons synthesized from paired runway ends (§4.7). Procedure
// emission for the relational path already happened during load
// (internal/procedure.Writer runs inline with the streaming cursor), so
// it is not repeated here, matching the other adapters' "emit during
// load" behavior.
func (p *Pipeline) derive(ctx context.Context, stg *staging) error {
	d := &derived{runwaysByAirport: make(map[string][]navdata.Runway, len(stg.airports))}

	for i := range stg.airports {
		ident := stg.airports[i].Ident
		ends := stg.runwaysByAirport[ident]
		if len(ends) == 0 {
			continue
		}
		runways := runway.Pair(ends)
		d.runwaysByAirport[ident] = runways
		stg.airports[i].BoundingRect = runway.AirportBoundingRect(stg.airports[i].Position, runways)
	}
	stg.derived = d
	p.assignAirportRegionsFromAirspace(stg)

	model := p.magvarModel()
	magvar.Apply(stg.airports,
		func(a navdata.Airport) (float32, float32) { return a.Position.Longitude(), a.Position.Latitude() },
		func(a *navdata.Airport, v float32) { a.MagneticVar = v },
		model, func(a navdata.Airport, err error) {
			p.Log.Debugf("magvar: airport %s: %v: questionable position %s", a.Ident, err, spew.Sdump(a.Position))
		})
	magvar.Apply(stg.navaids,
		func(n navdata.Navaid) (float32, float32) { return n.Position.Longitude(), n.Position.Latitude() },
		func(n *navdata.Navaid, v float32) { n.MagneticVar = v },
		model, func(n navdata.Navaid, err error) {
			p.Log.Debugf("magvar: navaid %s: %v: questionable position %s", n.Ident, err, spew.Sdump(n.Position))
		})

	for i := range stg.navaids {
		typeCode := tacanTypeCode(stg.navaids[i].Type)
		if typeCode == "" {
			continue
		}
		if ch, ok := tacan.Channel(typeCode, stg.navaids[i].FrequencyHz); ok {
			stg.navaids[i].Channel = ch
		}
	}

	stg.ils = synthesizeILS(d.runwaysByAirport, p.Config.Policy.FeatherLengthNM)
	magvar.Apply(stg.ils,
		func(i navdata.ILS) (float32, float32) { return i.Origin.Longitude(), i.Origin.Latitude() },
		func(i *navdata.ILS, v float32) { i.MagneticVar = v },
		model, func(i navdata.ILS, err error) { p.Log.Debugf("magvar: ils %s: %v", i.Ident, err) })

	_ = ctx
	return nil
}

func (p *Pipeline) magvarModel() magvar.Model {
	// A grid model needs a zstd-compressed sample dump at a configured
	// path; without one, the WMM coefficient backend (accurate anywhere,
	// slower per lookup) covers every position unconditionally.
	path := p.Config.Policy.MagneticGridPath
	if path == "" {
		return magvar.WMMModel{At: time.Now()}
	}
	compressed, err := os.ReadFile(path)
	if err != nil {
		p.Log.Warnf("magvar: reading grid %s: %v, falling back to WMM", path, err)
		return magvar.WMMModel{At: time.Now()}
	}
	grid, err := magvar.LoadGrid(compressed,
		magvar.WorldGridMinLatitude, magvar.WorldGridMaxLatitude,
		magvar.WorldGridMinLongitude, magvar.WorldGridMaxLongitude, magvar.WorldGridStep)
	if err != nil {
		p.Log.Warnf("magvar: loading grid %s: %v, falling back to WMM", path, err)
		return magvar.WMMModel{At: time.Now()}
	}
	return grid
}

// defaultLocalizerWidthDegrees is the nominal full localizer beam width
// used when synthesizing an ILS record from a runway end's back-
// reference, since no adapter built so far preserves the source's own
// beam-width column.
const defaultLocalizerWidthDegrees = 5

// synthesizeILS builds one navdata.ILS per runway end that carries a
// non-blank ILSIdent, per spec §4.7: "derive the localizer feather
// polygon from each ILS-equipped runway end." The origin is the
// runway end's threshold and the heading is its inbound course, matching
// how a localizer is physically sited at the runway it serves.
func synthesizeILS(runwaysByAirport map[string][]navdata.Runway, featherLengthNM float32) []navdata.ILS {
	if featherLengthNM <= 0 {
		featherLengthNM = ils.DefaultFeatherLengthNM
	}
	var out []navdata.ILS
	for _, runways := range runwaysByAirport {
		for _, rw := range runways {
			for _, end := range []navdata.RunwayEnd{rw.PrimaryEnd, rw.SecondaryEnd} {
				if end.ILSIdent == "" {
					continue
				}
				feather := ils.Feather(end.Threshold, end.HeadingTrue, defaultLocalizerWidthDegrees, featherLengthNM)
				out = append(out, navdata.ILS{
					Ident:        end.ILSIdent,
					Origin:       end.Threshold,
					HeadingTrue:  end.HeadingTrue,
					WidthDegrees: defaultLocalizerWidthDegrees,
					Feather:      feather,
				})
			}
		}
	}
	return out
}
