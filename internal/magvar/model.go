// Package magvar implements the two magnetic-variation backends spec
// §4.8 needs and the tabular update primitive that drives the
// magnetic-variation pass itself.
//
// GridModel is grounded on mmp-vice/pkg/aviation/db.go's MagneticGrid:
// the same nearest-sample lookup over a fixed-step lat/long grid loaded
// from a zstd-compressed NOAA WMM grid-tool dump, generalized to accept
// any grid (the teacher hardcodes one CONUS grid; the compiler may need
// a worldwide one).
//
// WMMModel is grounded on stignarnia-co-atc/internal/physics/physics.go's
// CalculateMagneticVariation, which calls github.com/westphae/geomag's
// wmm/egm96 packages directly -- the ecosystem's reference WMM
// coefficient-model implementation, used here for positions outside (or
// wherever higher precision than) the grid is required.
package magvar

import (
	"fmt"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/util"
)

// Model looks up the magnetic variation (declination, +East/-West
// degrees) at a position, per spec §4.8.
type Model interface {
	Lookup(p geo.Position) (float32, error)
}

// GridModel is a nearest-sample lookup over a rectangular lat/long grid,
// matching the teacher's MagneticGrid.
type GridModel struct {
	MinLatitude, MaxLatitude   float32
	MinLongitude, MaxLongitude float32
	LatLongStep                float32
	Samples                    []float32
}

// WorldGridMinLatitude, etc. are the bounds and step LoadGrid assumes
// for a worldwide dump when the caller has no narrower CONUS-style
// extent to supply, generalizing the teacher's hardcoded grid bounds
// (which cover a single fixed region) the way the package doc comment
// describes.
const (
	WorldGridMinLatitude  = -90
	WorldGridMaxLatitude  = 90
	WorldGridMinLongitude = -180
	WorldGridMaxLongitude = 180
	WorldGridStep         = 2.5
)

// LoadGrid decodes a zstd-compressed grid-tool dump (one declination
// sample per line, in row-major lat-then-long order) into a GridModel,
// per the teacher's parseMagneticGrid.
func LoadGrid(compressed []byte, minLat, maxLat, minLon, maxLon, step float32) (*GridModel, error) {
	raw, err := util.DecompressZstd(compressed)
	if err != nil {
		return nil, fmt.Errorf("magvar: decompressing grid: %w", err)
	}
	samples, err := parseSamples(raw)
	if err != nil {
		return nil, err
	}

	g := &GridModel{MinLatitude: minLat, MaxLatitude: maxLat, MinLongitude: minLon, MaxLongitude: maxLon, LatLongStep: step}
	nlat := g.latCount()
	nlong := g.lonCount()
	if len(samples) != nlat*nlong {
		return nil, fmt.Errorf("magvar: found %d grid samples, expected %d x %d = %d", len(samples), nlat, nlong, nlat*nlong)
	}
	g.Samples = samples
	return g, nil
}

func (g *GridModel) latCount() int { return int(1 + (g.MaxLatitude-g.MinLatitude)/g.LatLongStep) }
func (g *GridModel) lonCount() int { return int(1 + (g.MaxLongitude-g.MinLongitude)/g.LatLongStep) }

// Lookup returns the nearest sample's declination, negated to match the
// teacher's sign convention for its source grid tool's output.
func (g *GridModel) Lookup(p geo.Position) (float32, error) {
	if p.Longitude() < g.MinLongitude || p.Longitude() > g.MaxLongitude ||
		p.Latitude() < g.MinLatitude || p.Latitude() > g.MaxLatitude {
		return 0, fmt.Errorf("magvar: %v outside sampled grid", p)
	}

	nlong := g.lonCount()
	nlat := g.latCount()
	lat := geo.Min(int((p.Latitude()-g.MinLatitude)/g.LatLongStep+0.5), nlat-1)
	long := geo.Min(int((p.Longitude()-g.MinLongitude)/g.LatLongStep+0.5), nlong-1)

	return -g.Samples[long+nlong*lat], nil
}

// WMMModel evaluates the World Magnetic Model's coefficient series
// directly via github.com/westphae/geomag, for positions a GridModel
// does not cover or when compile-time epsilon validation (invariant 6)
// demands the authoritative value rather than a sampled one.
type WMMModel struct {
	At time.Time
}

func (m WMMModel) Lookup(p geo.Position) (float32, error) {
	loc := egm96.NewLocationGeodetic(float64(p.Latitude()), float64(p.Longitude()), 0)
	field, err := wmm.CalculateWMMMagneticField(loc, m.At)
	if err != nil {
		return 0, fmt.Errorf("magvar: WMM evaluation: %w", err)
	}
	return float32(field.D()), nil
}

func parseSamples(raw []byte) ([]float32, error) {
	var samples []float32
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '\n' {
			line := string(raw[start:i])
			start = i + 1
			if len(line) == 0 {
				continue
			}
			v, err := util.Atof(line)
			if err != nil {
				return nil, fmt.Errorf("magvar: parsing grid sample %q: %w", line, err)
			}
			samples = append(samples, float32(v))
		}
	}
	return samples, nil
}
