package sceneryadapter

import (
	"fmt"

	"github.com/flightdata/navdbc/internal/binreader"
	"github.com/flightdata/navdbc/internal/logx"
)

// ReadArchive walks one top-level scenery archive buffer and decodes
// every airport record it contains, per spec §4.2's multi-area iteration:
// the orchestrator calls this once per active scenery area and merges
// the results the same way it merges rows from any other adapter.
func ReadArchive(data []byte, policy AreaPolicy, log *logx.Logger) ([]AirportResult, error) {
	r := binreader.New(data)
	var results []AirportResult

	handlers := map[uint16]binreader.DispatchFunc{
		tagAirport: func(r *binreader.Reader, tag uint16, frameEnd int) error {
			res, err := ReadAirport(r, frameEnd, policy, log)
			if err != nil {
				return err
			}
			results = append(results, res)
			return nil
		},
	}

	onUnknown := func(tag uint16, offset int) {
		if policy.Legacy {
			log.Warnf("sceneryadapter: unexpected top-level tag 0x%04x at offset %d", tag, offset)
		} else {
			log.Debugf("sceneryadapter: unknown top-level tag 0x%04x at offset %d", tag, offset)
		}
	}

	if err := binreader.Walk(r, len(data), handlers, onUnknown); err != nil {
		return results, fmt.Errorf("sceneryadapter: walking archive: %w", err)
	}
	return results, nil
}
