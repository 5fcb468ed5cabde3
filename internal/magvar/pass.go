package magvar

// Apply is the generic "(select-columns, update-columns, transform-fn)
// tabular update primitive" spec §4.8 calls for: it runs model.Lookup
// over every row's position and writes the result back via
// setVariation. Rows for which the model cannot produce a value (e.g.
// outside a GridModel's coverage) are left unmodified and reported via
// onError rather than aborting the whole pass.
func Apply[T any](rows []T, position func(T) (lon, lat float32), setVariation func(*T, float32), model Model, onError func(T, error)) {
	for i := range rows {
		lon, lat := position(rows[i])
		v, err := model.Lookup(positionOf(lon, lat))
		if err != nil {
			if onError != nil {
				onError(rows[i], err)
			}
			continue
		}
		setVariation(&rows[i], v)
	}
}

func positionOf(lon, lat float32) [2]float32 { return [2]float32{lon, lat} }
