// Package metar implements the spatial weather index of spec §4.11:
// parsers for the three METAR source formats (NOAA two-line, flat, and
// JSON), and a position-indexed cache supporting direct and
// nearest-station lookup. Grounded on mmp-vice/pkg/aviation/weather.go's
// METAR type and its JSON-tagged wire-format struct
// (avWeatherMETAR) -- here generalized from "fetch one live JSON
// response" to "merge NOAA/flat/JSON files into a long-lived index" --
// and on mmp-vice/misc/airspace.go's use of github.com/paulmach/orb for
// the spatial structure, here a quadtree over station positions instead
// of polygon geometry.
package metar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// FetchAirportCoords resolves an airport identifier to a position for
// the purpose of siting a METAR station that carries no coordinate of
// its own, per spec §4.11's set_fetch_airport_coords callback.
type FetchAirportCoords func(ident string) (geo.Position, bool)

// Index is the METAR spatial index: an in-memory station->record map
// plus a quadtree over the stations the fetch callback could resolve.
// Per spec §5, read() (rebuild) and get_metar() (query) must not run
// concurrently; Index enforces that with a RWMutex rather than leaving
// it to caller discipline.
type Index struct {
	mu           sync.RWMutex
	byStation    map[string]navdata.MetarEntry
	tree         *quadtree.Quadtree
	fetchCoords  FetchAirportCoords
}

func New() *Index {
	return &Index{byStation: make(map[string]navdata.MetarEntry)}
}

// SetFetchAirportCoords installs the airport-coordinate callback, per
// spec §4.11. Must be called before the first Read for stations to be
// indexed spatially.
func (idx *Index) SetFetchAirportCoords(fn FetchAirportCoords) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.fetchCoords = fn
}

// Read parses every record in r (in the given format) and merges them
// into the index, per spec §4.11: "on merge=false clear first; on
// duplicate station identifier keep the newer timestamp; return count."
// The spatial index is rebuilt unconditionally afterward.
func (idx *Index) Read(r io.Reader, format Format, fileName string, merge bool) (int, error) {
	entries, err := Parse(r, format)
	if err != nil {
		return 0, fmt.Errorf("metar: reading %s: %w", fileName, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !merge {
		idx.byStation = make(map[string]navdata.MetarEntry, len(entries))
	}

	count := 0
	for _, e := range entries {
		existing, ok := idx.byStation[e.Station]
		if !ok || e.Timestamp >= existing.Timestamp {
			idx.byStation[e.Station] = e
		}
		count++
	}

	idx.rebuildTreeLocked()
	return count, nil
}

type treePoint struct {
	station string
	pos     orb.Point
}

func (p treePoint) Point() orb.Point { return p.pos }

// rebuildTreeLocked walks the identifier map and queries the fetch
// callback for each station's position, per spec §4.11: "cheap because
// identifier->metar is an in-memory mapping." Stations the callback
// cannot resolve sit at position 0/0/0 and are excluded from the
// spatial structure, per spec.
func (idx *Index) rebuildTreeLocked() {
	bound := orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
	tree := quadtree.New(bound)

	for station, entry := range idx.byStation {
		var pos geo.Position
		if idx.fetchCoords != nil {
			if p, ok := idx.fetchCoords(station); ok {
				pos = p
			} else {
				continue
			}
		} else {
			continue
		}
		entry.Position = pos
		idx.byStation[station] = entry
		if err := tree.Add(treePoint{station: station, pos: orb.Point{float64(pos.Longitude()), float64(pos.Latitude())}}); err != nil {
			continue
		}
	}
	idx.tree = tree
}

// GetMetar returns the record for station, or -- if absent -- the
// nearest indexed station's record, per spec §4.11. The result always
// preserves the caller's original request identifier and position.
func (idx *Index) GetMetar(station string, position geo.Position) navdata.MetarResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if e, ok := idx.byStation[station]; ok {
		return navdata.MetarResult{RequestIdent: station, RequestPosition: position, Station: station, Body: e.Body, Found: true}
	}

	if idx.tree == nil {
		return navdata.MetarResult{RequestIdent: station, RequestPosition: position, Found: false}
	}

	nearest := idx.tree.Find(orb.Point{float64(position.Longitude()), float64(position.Latitude())})
	if nearest == nil {
		return navdata.MetarResult{RequestIdent: station, RequestPosition: position, Found: false}
	}
	tp := nearest.(treePoint)
	e := idx.byStation[tp.station]
	return navdata.MetarResult{RequestIdent: station, RequestPosition: position, Station: tp.station, Body: e.Body, Found: true}
}

// Format selects which of the three parallel line-based source formats
// Parse should read, per spec §4.11.
type Format int

const (
	FormatNOAA Format = iota
	FormatFlat
	FormatJSON
)

// Parse decodes every record out of r according to format.
func Parse(r io.Reader, format Format) ([]navdata.MetarEntry, error) {
	switch format {
	case FormatNOAA:
		return parseNOAA(r)
	case FormatFlat:
		return parseFlat(r)
	case FormatJSON:
		return parseJSON(r)
	default:
		return nil, fmt.Errorf("metar: unknown format %d", format)
	}
}

// parseNOAA reads two-line records: the first line is a UTC timestamp,
// the second is the METAR body starting with the station identifier.
func parseNOAA(r io.Reader) ([]navdata.MetarEntry, error) {
	sc := bufio.NewScanner(r)
	var entries []navdata.MetarEntry
	var pendingTimestamp string
	haveTimestamp := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !haveTimestamp {
			pendingTimestamp = line
			haveTimestamp = true
			continue
		}
		entry, err := bodyToEntry(line)
		if err != nil {
			return nil, err
		}
		entry.Timestamp = parseNOAATimestamp(pendingTimestamp)
		entries = append(entries, entry)
		haveTimestamp = false
	}
	return entries, sc.Err()
}

// parseFlat reads one METAR per line.
func parseFlat(r io.Reader) ([]navdata.MetarEntry, error) {
	sc := bufio.NewScanner(r)
	var entries []navdata.MetarEntry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		entry, err := bodyToEntry(line)
		if err != nil {
			return nil, err
		}
		entry.Timestamp = timestampFromBody(line)
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

type jsonEntry struct {
	Station   string `json:"station"`
	Time      int64  `json:"time"`
	Body      string `json:"body"`
}

// parseJSON reads a list of structured entries with station, time, and
// body fields, per spec §4.11.
func parseJSON(r io.Reader) ([]navdata.MetarEntry, error) {
	var raw []jsonEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("metar: decoding JSON: %w", err)
	}
	entries := make([]navdata.MetarEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, navdata.MetarEntry{Station: e.Station, Timestamp: e.Time, Body: e.Body})
	}
	return entries, nil
}

func bodyToEntry(body string) (navdata.MetarEntry, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return navdata.MetarEntry{}, fmt.Errorf("metar: empty record body")
	}
	return navdata.MetarEntry{Station: fields[0], Body: body}, nil
}
