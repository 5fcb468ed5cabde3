package metar

import (
	"strconv"
	"strings"
	"time"
)

// parseNOAATimestamp parses a NOAA-style header line, e.g.
// "2024/08/01 12:00", into unix seconds. An unparseable line yields 0
// ("unknown, keep whatever we have" per navdata.MetarEntry's doc).
func parseNOAATimestamp(line string) int64 {
	t, err := time.Parse("2006/01/02 15:04", strings.TrimSpace(line))
	if err != nil {
		return 0
	}
	return t.UTC().Unix()
}

// timestampFromBody extracts the day-hour-minute Zulu group (e.g.
// "011200Z" in "KAAA 011200Z ...") that every METAR body carries as its
// second field, anchoring it to the current month/year since the group
// itself carries no year. Used for the flat format, which has no
// separate timestamp line.
func timestampFromBody(body string) int64 {
	fields := strings.Fields(body)
	if len(fields) < 2 {
		return 0
	}
	dtg := fields[1]
	if len(dtg) != 7 || dtg[6] != 'Z' {
		return 0
	}
	day, err1 := strconv.Atoi(dtg[0:2])
	hour, err2 := strconv.Atoi(dtg[2:4])
	minute, err3 := strconv.Atoi(dtg[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}
	now := time.Now().UTC()
	t := time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, time.UTC)
	return t.Unix()
}
