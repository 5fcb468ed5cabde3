// Package airway implements the airway fragment-resolution state machine
// of spec §4.6: it scans a source's ordered route rows and emits
// directed airway segments, splitting into a new fragment wherever a
// route ends and resumes (a common artifact of regional data cycles
// covering the same airway in separate chunks). Grounded on
// mmp-vice/aviation/arinc424.go's airway-assembly code, which walks ARINC
// 424 records in file order and keys fragments the same way; the
// "sorted map of sequence -> fix" replay technique there is reused via
// internal/util.SortedMap where a caller has already bucketed rows by
// route name.
package airway

import (
	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// Row is one input row to the resolver: a route/sequence/waypoint record
// as produced by a source adapter, per spec §4.6.
type Row struct {
	RouteIdentifier       string
	Sequence              int
	WaypointDescriptionCode string // second character 'E' marks end-of-route
	WaypointID              string
	Position                geo.Position
	Level                   byte // 'H', 'L', 'B', or blank
	DirectionRestriction    byte // blank, 'F', or 'B'
	AltitudeMin, AltitudeMax int
}

func isEndOfRoute(code string) bool {
	return len(code) >= 2 && code[1] == 'E'
}

func levelFromColumn(b byte) navdata.AirwayLevel {
	switch b {
	case 'H':
		return navdata.AirwayJet
	case 'L':
		return navdata.AirwayVictor
	default:
		return navdata.AirwayBoth
	}
}

func directionFromColumn(b byte) navdata.AirwayDirection {
	switch b {
	case 'F':
		return navdata.AirwayDirectionForward
	case 'B':
		return navdata.AirwayDirectionBackward
	default:
		return navdata.AirwayDirectionNone
	}
}

// DefaultMaxSegmentLengthNM caps a single emitted segment's great-circle length;
// segments longer than this are dropped as known-borked geometry from
// legacy binary sources, per spec §4.6. Resolve configures the cap per
// call so the orchestrator can widen it for trusted sources (§4.6 Open
// Question, recorded in DESIGN.md).
const DefaultMaxSegmentLengthNM = 700

// Resolve scans rows (which must already be in source file order) and
// emits directed airway segments, implementing spec §4.6's state
// machine. maxSegmentNM is the borked-geometry cutoff; pass
// DefaultMaxSegmentLengthNM for legacy sources, or a larger/zero value
// (zero disables the check) for trusted sources.
func Resolve(rows []Row, maxSegmentNM float32) []navdata.AirwaySegment {
	var segments []navdata.AirwaySegment

	var (
		haveLast   bool
		lastRow    Row
		lastName   string
		fragment   = 1
		sequence   = 1
	)

	for _, row := range rows {
		nameChange := row.RouteIdentifier != lastName
		lastEndOfRoute := haveLast && isEndOfRoute(lastRow.WaypointDescriptionCode)

		switch {
		case nameChange:
			fragment = 1
			sequence = 1
		case lastEndOfRoute:
			fragment++
			sequence = 1
		case haveLast:
			seg := navdata.AirwaySegment{
				Name:         lastRow.RouteIdentifier,
				Fragment:     fragment,
				Sequence:     sequence,
				Level:        levelFromColumn(row.Level),
				FromWaypoint: lastRow.WaypointID,
				ToWaypoint:   row.WaypointID,
				Direction:    directionFromColumn(row.DirectionRestriction),
				MinAltitude:  row.AltitudeMin,
				MaxAltitude:  row.AltitudeMax,
				BoundingRect: geo.RectFromPositions([]geo.Position{lastRow.Position, row.Position}),
			}
			if maxSegmentNM <= 0 || geo.DistanceNM(lastRow.Position, row.Position) <= maxSegmentNM {
				segments = append(segments, seg)
			}
			sequence++
		}

		lastRow = row
		lastName = row.RouteIdentifier
		haveLast = true
	}

	return segments
}
