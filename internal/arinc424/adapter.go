// Package arinc424 is the text/line source adapter of spec §4.4,
// reading fixed-column ARINC 424 records. Grounded directly on
// mmp-vice/aviation/arinc424.go -- the closest 1:1 match anywhere in the
// example pack: fixed 132-column (+CRLF) lines, record-type/section/
// subsection dispatch on specific column offsets, continuation records
// for multi-line entities (approach legs following their header), and
// the "sorted map of sequence -> fix" technique for assembling an
// airway's fixes in order, reused here via internal/util.SortedMap.
// Where the teacher builds an in-memory ATC-sim database, this adapter
// builds navdata rows for airports, runways, navaids and airways only
// (procedure and continuation records are not decoded), and reports
// malformed lines through an ErrorLog rather than panicking, per spec §7
// ("malformed input ... non-fatal per record").
package arinc424

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/util"
)

// LineLength is the fixed ARINC 424 record length including the
// trailing CRLF, matching the teacher's ARINC424LineLength.
const LineLength = 134

// Record type / section column offsets, per spec §6's described column
// layout and the teacher's line[0]/line[4]/line[12] dispatch.
const (
	colRecordType = 0  // 'S' standard, 'T' tailored
	colSection    = 4  // 'P' airport/heliport, 'D' navaid, 'E' enroute, 'H' heliport
	colSubsection = 5
	colAirport    = 6  // airport identifier, 4 chars
)

// Result accumulates everything one ARINC 424 file contributes.
type Result struct {
	Airports []navdata.Airport
	Navaids  []navdata.Navaid
	Runways  []RunwayEndRow
	Airways  []navdata.AirwaySegment
	Errors   util.ErrorLog
}

// RunwayEndRow is one single-ended runway record as read from an
// airport's runway subsection, ready for internal/runway.Pair.
type RunwayEndRow struct {
	AirportIdent string
	Designator   string
	Threshold    geo.Position
	HeadingTrue  float32
	LengthFeet   float32
	WidthFeet    float32
	Surface      string
}

// Parse reads every line of r, dispatching by record type/section/
// subsection per spec §4.4. A short read (legacy files are sometimes
// missing the final line's CRLF) is tolerated for the last line only;
// any other malformed line is skipped with a warning, matching the
// "behavior contracts match the other adapters" requirement.
func Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	airwayFixes := make(map[string]map[int]airwayFix)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, LineLength), LineLength*4)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if util.AllSpaces(line) {
			continue
		}
		if len(line) < colAirport+4 {
			res.Errors.Errorf("line %d: record too short (%d bytes)", lineNo, len(line))
			continue
		}
		if err := dispatch(line, lineNo, res, airwayFixes); err != nil {
			res.Errors.Error(err)
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("arinc424: reading: %w", err)
	}

	flushAirways(res, airwayFixes)
	return res, nil
}

type airwayFix struct {
	sequence int
	ident    string
	position geo.Position
	level    byte
	endOfRoute bool
}

func dispatch(line []byte, lineNo int, res *Result, airwayFixes map[string]map[int]airwayFix) error {
	recordType := line[colRecordType]
	if recordType != 'S' && recordType != 'T' {
		return fmt.Errorf("line %d: unrecognized record type %q", lineNo, string(recordType))
	}

	section := line[colSection]
	switch section {
	case 'P', 'H':
		return parseAirportSection(line, lineNo, res)
	case 'D':
		return parseNavaidSection(line, lineNo, res)
	case 'E':
		return parseEnrouteSection(line, lineNo, res, airwayFixes)
	default:
		res.Errors.Errorf("line %d: unknown section code %q, skipping", lineNo, string(section))
		return nil
	}
}

// parseAirportSection handles airport-header and runway-subsection
// records. The mandatory-field validation spec §4.4 calls for is just
// "is the airport identifier non-blank" -- the teacher's parser is far
// more exhaustive, but spanning its whole per-field mandatory-field
// table is out of scope for what this adapter's caller needs.
func parseAirportSection(line []byte, lineNo int, res *Result) error {
	ident := util.TrimField(line[colAirport : colAirport+4])
	if ident == "" {
		return fmt.Errorf("line %d: airport record missing identifier", lineNo)
	}

	if len(line) < 48 {
		res.Errors.Errorf("line %d: airport record %s too short for runway fields, treating as header only", lineNo, ident)
		res.Airports = append(res.Airports, navdata.Airport{Ident: ident})
		return nil
	}

	subsection := line[colSubsection]
	if subsection == 'G' { // runway subsection
		designator := util.TrimField(line[13:18])
		if designator == "" {
			return fmt.Errorf("line %d: runway record missing designator", lineNo)
		}
		pos, err := parseFixedPosition(line[32:51])
		if err != nil {
			return fmt.Errorf("line %d: runway %s: %w", lineNo, designator, err)
		}
		length, _ := util.Atof(string(line[22:27]))
		width, _ := util.Atof(string(line[27:30]))
		heading, _ := util.Atof(string(line[51:55]))
		res.Runways = append(res.Runways, RunwayEndRow{
			AirportIdent: ident,
			Designator:   designator,
			Threshold:    pos,
			HeadingTrue:  float32(heading) / 10,
			LengthFeet:   float32(length),
			WidthFeet:    float32(width),
			Surface:      util.TrimField(line[66:68]),
		})
		return nil
	}

	// Airport primary record (subsection blank): identifier plus
	// reference point, per spec §6's column layout.
	pos, err := parseFixedPosition(line[32:51])
	if err != nil {
		res.Errors.Errorf("line %d: airport %s: %v, position left zero", lineNo, ident, err)
	}
	name := util.TrimField(line[93:123])
	res.Airports = append(res.Airports, navdata.Airport{Ident: ident, Name: name, Position: pos})
	return nil
}

func parseNavaidSection(line []byte, lineNo int, res *Result) error {
	ident := util.TrimField(line[13:17])
	if ident == "" {
		return fmt.Errorf("line %d: navaid record missing identifier", lineNo)
	}
	region := util.TrimField(line[19:21])
	pos, err := parseFixedPosition(line[32:51])
	if err != nil {
		return fmt.Errorf("line %d: navaid %s: %w", lineNo, ident, err)
	}
	freqRaw := util.TrimField(line[22:27])
	freqTenthsKHz, _ := strconv.Atoi(strings.ReplaceAll(freqRaw, ".", ""))

	navType := classifyNavaidType(line)
	res.Navaids = append(res.Navaids, navdata.Navaid{
		Ident:       ident,
		Region:      region,
		Type:        navType,
		Position:    pos,
		FrequencyHz: int64(freqTenthsKHz) * 1000,
	})
	return nil
}

func classifyNavaidType(line []byte) navdata.NavaidType {
	switch {
	case line[colSubsection] == 'B':
		return navdata.NavaidNDB
	case line[colSubsection] == ' ' || line[colSubsection] == 'V':
		return navdata.NavaidVOR
	default:
		return navdata.NavaidWaypoint
	}
}

// parseEnrouteSection reads airway-fix records (subsection 'A') and
// buffers them per route identifier keyed by sequence number, using the
// teacher's "sorted map of sequence -> fix" assembly technique so the
// final replay is deterministic regardless of input order within a
// route.
func parseEnrouteSection(line []byte, lineNo int, res *Result, airwayFixes map[string]map[int]airwayFix) error {
	if line[colSubsection] != 'A' {
		return nil
	}
	route := util.TrimField(line[13:18])
	if route == "" {
		return fmt.Errorf("line %d: airway record missing route identifier", lineNo)
	}
	seq, err := strconv.Atoi(strings.TrimSpace(string(line[25:29])))
	if err != nil {
		return fmt.Errorf("line %d: airway %s: invalid sequence number: %w", lineNo, route, err)
	}
	waypoint := util.TrimField(line[29:34])
	pos, err := parseFixedPosition(line[32:51])
	if err != nil {
		pos = geo.Position{}
	}
	descCode := util.TrimField(line[39:41])

	if airwayFixes[route] == nil {
		airwayFixes[route] = make(map[int]airwayFix)
	}
	airwayFixes[route][seq] = airwayFix{
		sequence:   seq,
		ident:      waypoint,
		position:   pos,
		level:      line[45],
		endOfRoute: len(descCode) >= 2 && descCode[1] == 'E',
	}
	return nil
}

// flushAirways replays every route's buffered fixes in sequence order
// and emits one segment between each pair of consecutive fixes, skipping
// the segment that would start at an end-of-route fix -- mirroring the
// teacher's "for _, airway := range util.SortedMap(airwayWIP)" replay,
// generalized across multiple named routes instead of one at a time.
// The segments are built here directly, not through internal/airway's
// resolver: Fragment, Level, Direction and the altitudes stay zero, and
// Sequence is the source record's own sequence number.
func flushAirways(res *Result, airwayFixes map[string]map[int]airwayFix) {
	for _, route := range util.SortedMapKeys(airwayFixes) {
		fixes := util.SortedMap(airwayFixes[route])
		for i := 0; i+1 < len(fixes); i++ {
			if fixes[i].endOfRoute {
				continue
			}
			res.Airways = append(res.Airways, navdata.AirwaySegment{
				Name:         route,
				Sequence:     fixes[i].sequence,
				FromWaypoint: fixes[i].ident,
				ToWaypoint:   fixes[i+1].ident,
				BoundingRect: geo.RectFromPositions([]geo.Position{fixes[i].position, fixes[i+1].position}),
			})
		}
	}
}

// parseFixedPosition decodes the DDMMSS hemisphere-prefixed lat/long
// pair ARINC 424 packs into a fixed 19-column field, reusing
// geo.ParseDDDMMSS for each half.
func parseFixedPosition(field []byte) (geo.Position, error) {
	if len(field) < 19 {
		return geo.Position{}, fmt.Errorf("position field too short")
	}
	lat := field[0:9]
	lon := field[9:19]
	latVal, err := geo.ParseDDDMMSS(lat[0], string(lat[1:3]), string(lat[3:5]), string(lat[5:9]))
	if err != nil {
		return geo.Position{}, fmt.Errorf("latitude: %w", err)
	}
	lonVal, err := geo.ParseDDDMMSS(lon[0], string(lon[1:4]), string(lon[4:6]), string(lon[6:10]))
	if err != nil {
		return geo.Position{}, fmt.Errorf("longitude: %w", err)
	}
	return geo.Position{lonVal, latVal}, nil
}
