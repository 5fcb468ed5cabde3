// Package tacan implements the channel-derivation pass of spec §4.9:
// rows typed TC (a dedicated TACAN station) or VT-prefixed (a VORTAC)
// get a channel computed from their frequency; everything else is left
// alone. Grounded on the frequency/channel table structure of ARINC 424
// navaid records as parsed by mmp-vice/aviation/arinc424.go, which reads
// the same frequency column for VOR/VORTAC/NDB rows and only needed
// generalizing to also emit a channel string.
package tacan

import (
	"strconv"
	"strings"
)

// channelTable maps a VHF frequency, in units of 10 kHz (hertz / 10000,
// so 108.00 MHz is 10800), to the X/Y channel paired with it. TACAN
// channels run 1X/1Y..126X/126Y; only the VHF-paired channels 17-59 and
// 70-126 have entries, so channels 1-16 and 60-69 are never returned.
var channelTable = buildChannelTable()

func buildChannelTable() map[int]string {
	t := make(map[int]string, 200)
	// VOR/TACAN colocated channels 17X-59X and 70X-126X map to
	// 108.00-117.95 MHz in 0.05 MHz (5-unit) steps, alternating X/Y per
	// the standard TACAN/VOR frequency-pairing table.
	freq := 10800
	ch := 17
	for ch <= 126 {
		if ch == 60 {
			ch = 70
		}
		t[freq] = itoaChannel(ch, 'X')
		freq += 5
		t[freq] = itoaChannel(ch, 'Y')
		freq += 5
		ch++
	}
	return t
}

func itoaChannel(n int, band byte) string {
	return strconv.Itoa(n) + string(band)
}

// Channel computes the TACAN channel for a navaid whose type code
// (already trimmed) is "TC" or begins with "VT", and whose frequency is
// given in hertz, per spec §4.9: "compute the TACAN channel from the
// frequency (divided by 10, then looked up in a fixed table)". Returns
// ("", false) for a type this pass does not apply to, or a frequency
// with no table entry.
func Channel(typeCode string, frequencyHz int64) (string, bool) {
	if typeCode != "TC" && !strings.HasPrefix(typeCode, "VT") {
		return "", false
	}
	// hertz / 10000 gives the frequency in channelTable's 10 kHz units
	// (108.00 MHz -> 10800).
	key := int(frequencyHz / 10000)
	ch, ok := channelTable[key]
	return ch, ok
}
