package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/flightdata/navdbc/internal/arinc424"
	"github.com/flightdata/navdbc/internal/meta"
	"github.com/flightdata/navdbc/internal/metrics"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/runway"
	"github.com/google/uuid"
)

// loadARINC424 reads every configured text source file in order, per
// spec §4.4/§4.12 step 3's "single-adapter runs (text-line)". A file
// that fails to open aborts the run in strict mode and is skipped
// otherwise, matching spec §7's "malformed input is non-fatal per
// record, but a missing file is an adapter-level failure."
func (p *Pipeline) loadARINC424(ctx context.Context, stg *staging, errSink metrics.ErrorSink) ([]meta.FileDescriptor, error) {
	var files []meta.FileDescriptor
	priority := navdata.PriorityBase

	for i, path := range p.Config.Source.Paths {
		f, err := os.Open(path)
		if err != nil {
			if p.Config.Policy.Strict {
				return files, fmt.Errorf("orchestrator: opening %s: %w", path, err)
			}
			p.Log.Warnf("skipping unreadable ARINC 424 file %s: %v", path, err)
			continue
		}

		res, err := arinc424.Parse(f)
		_ = f.Close()
		if err != nil {
			if p.Config.Policy.Strict {
				return files, fmt.Errorf("orchestrator: parsing %s: %w", path, err)
			}
			p.Log.Warnf("skipping %s: %v", path, err)
			continue
		}
		if res.Errors.HasErrors() {
			p.Log.Warnf("%s: %d record errors: %s", path, res.Errors.Count(), res.Errors.String())
			if errSink != nil {
				errSink("arinc424", path, res.Errors.String())
			}
		}

		for _, a := range res.Airports {
			stg.addAirport(a, priority)
		}
		for _, n := range res.Navaids {
			stg.addNavaid(n, priority)
		}
		for _, rw := range res.Runways {
			stg.addRunwayEnd(rw.AirportIdent, runway.End{
				Designator:  rw.Designator,
				Center:      rw.Threshold,
				HeadingTrue: rw.HeadingTrue,
				LengthFeet:  rw.LengthFeet,
				WidthFeet:   rw.WidthFeet,
				Surface:     rw.Surface,
			})
		}
		stg.airways = append(stg.airways, res.Airways...)

		files = append(files, meta.FileDescriptor{AreaID: uuid.New(), AreaName: "arinc424", Path: path, Layer: 0, Number: i})
	}
	return files, nil
}
