package store

import (
	"context"
	"fmt"

	"github.com/flightdata/navdbc/internal/geo"
)

// AirportPositions returns every committed airport's position keyed by
// ident, for callers (the METAR fetch-coords callback) that need the
// final, deduplicated set rather than a source adapter's raw staged
// rows.
func (s *Store) AirportPositions(ctx context.Context) (map[string]geo.Position, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ident, lon, lat FROM airports`)
	if err != nil {
		return nil, fmt.Errorf("store: selecting airport positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]geo.Position)
	for rows.Next() {
		var ident string
		var lon, lat float64
		if err := rows.Scan(&ident, &lon, &lat); err != nil {
			return nil, fmt.Errorf("store: scanning airport position: %w", err)
		}
		positions[ident] = geo.Position{float32(lon), float32(lat)}
	}
	return positions, rows.Err()
}
