package sceneryadapter

import (
	"github.com/flightdata/navdbc/internal/binreader"
	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/logx"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/runway"
)

// AirportResult is everything one top-level airport record contributed,
// ready for the orchestrator's staging tables (spec §4.2: "Adapter
// output is inserted into staging tables, not the final schema, so
// downstream cross-reference passes treat all adapters uniformly").
type AirportResult struct {
	Airport     navdata.Airport
	RunwayEnds  []runway.End
	Approaches  []Approach
}

// AreaPolicy controls the per-archive behavior that varies by source
// era, per spec §4.2: "Unknown tags encountered in modern-era archives
// are logged at debug level only ... in legacy archives they are
// warned."
type AreaPolicy struct {
	Legacy                  bool
	NewAirportHeaderVariant bool
}

// ReadAirport decodes one top-level airport record: the header (ident,
// reference point, name) and its child runway and approach subrecords.
// r is positioned just past the airport record's header; frameEnd is
// that record's end offset.
func ReadAirport(r *binreader.Reader, frameEnd int, policy AreaPolicy, log *logx.Logger) (AirportResult, error) {
	var res AirportResult

	identPacked, err := r.Uint32()
	if err != nil {
		return res, err
	}
	res.Airport.Ident = decodeIdent(identPacked, 5)

	lon, err := r.Float64()
	if err != nil {
		return res, err
	}
	lat, err := r.Float64()
	if err != nil {
		return res, err
	}
	res.Airport.Position = geo.Position{float32(lon), float32(lat)}

	res.Airport.Name, err = r.FixedString(40)
	if err != nil {
		return res, err
	}

	onUnknown := unknownTagPolicy(policy, log, res.Airport.Ident)

	handlers := map[uint16]binreader.DispatchFunc{
		tagRunway: func(r *binreader.Reader, tag uint16, childEnd int) error {
			end, err := readRunwayEnd(r)
			if err != nil {
				return err
			}
			res.RunwayEnds = append(res.RunwayEnds, end)
			return nil
		},
		tagApproach: func(r *binreader.Reader, tag uint16, childEnd int) error {
			a, err := readApproach(r, childEnd, policy.NewAirportHeaderVariant, onUnknown)
			if err != nil {
				return err
			}
			res.Approaches = append(res.Approaches, a)
			return nil
		},
		tagApproachMSFS: func(r *binreader.Reader, tag uint16, childEnd int) error {
			a, err := readApproach(r, childEnd, policy.NewAirportHeaderVariant, onUnknown)
			if err != nil {
				return err
			}
			res.Approaches = append(res.Approaches, a)
			return nil
		},
		tagApproachMSFSNew: func(r *binreader.Reader, tag uint16, childEnd int) error {
			a, err := readApproach(r, childEnd, true, onUnknown)
			if err != nil {
				return err
			}
			res.Approaches = append(res.Approaches, a)
			return nil
		},
	}

	if err := binreader.Walk(r, frameEnd, handlers, onUnknown); err != nil {
		return res, err
	}
	return res, nil
}

// unknownTagPolicy implements spec §4.2's era-dependent unknown-tag
// handling: modern archives are known-evolving so an unrecognized tag is
// routine noise (debug); legacy archives are a closed, fully-documented
// format so the same situation is unexpected (warn).
func unknownTagPolicy(policy AreaPolicy, log *logx.Logger, airportIdent string) binreader.UnknownTagFunc {
	return func(tag uint16, offset int) {
		if policy.Legacy {
			log.Warnf("sceneryadapter: airport %s: unexpected tag 0x%04x at offset %d", airportIdent, tag, offset)
		} else {
			log.Debugf("sceneryadapter: airport %s: unknown tag 0x%04x at offset %d", airportIdent, tag, offset)
		}
	}
}

// readRunwayEnd decodes one runway subrecord into the single-ended shape
// internal/runway.Pair consumes.
func readRunwayEnd(r *binreader.Reader) (runway.End, error) {
	var e runway.End

	designator, err := r.FixedString(4)
	if err != nil {
		return e, err
	}
	e.Designator = designator

	lon, err := r.Float64()
	if err != nil {
		return e, err
	}
	lat, err := r.Float64()
	if err != nil {
		return e, err
	}
	e.Center = geo.Position{float32(lon), float32(lat)}

	if e.LengthFeet, err = r.Float32(); err != nil {
		return e, err
	}
	if e.WidthFeet, err = r.Float32(); err != nil {
		return e, err
	}
	if e.HeadingTrue, err = r.Float32(); err != nil {
		return e, err
	}
	if e.HeadingMag, err = r.Float32(); err != nil {
		return e, err
	}

	surface, err := r.FixedString(4)
	if err != nil {
		return e, err
	}
	e.Surface = surface

	return e, nil
}
