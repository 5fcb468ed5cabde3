package orchestrator

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/flightdata/navdbc/internal/airway"
	"github.com/flightdata/navdbc/internal/metrics"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/procedure"
	"github.com/flightdata/navdbc/internal/relsource"
	"github.com/flightdata/navdbc/internal/runway"
)

// loadRelational drives internal/relsource over every attached source
// database, per spec §4.3/§4.12 step 3's "single-adapter runs
// (relational)". Every attach_sources entry is queried in turn; since
// SQLite resolves unqualified table names against any attached schema
// without collision, relsource's unqualified queries work unchanged
// against whichever database is currently attached.
func (p *Pipeline) loadRelational(ctx context.Context, stg *staging, errSink metrics.ErrorSink) error {
	if len(p.Config.Store.AttachSources) == 0 {
		return fmt.Errorf("orchestrator: source type relational but store.attach_sources is empty")
	}
	db := sqlx.NewDb(p.Store.DB(), "sqlite3")
	adapter := relsource.New(db)

	for logicalName, path := range p.Config.Store.AttachSources {
		if err := p.Store.AttachSource(ctx, path, logicalName); err != nil {
			return err
		}
		if err := p.loadRelationalSource(ctx, adapter, stg, logicalName, errSink); err != nil {
			if errSink != nil {
				errSink(logicalName, path, err.Error())
			}
			if p.Config.Policy.Strict {
				_ = p.Store.DetachSource(ctx, logicalName)
				return err
			}
			p.Log.Warnf("relational source %s: %v", logicalName, err)
		}
		if err := p.Store.DetachSource(ctx, logicalName); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) loadRelationalSource(ctx context.Context, adapter *relsource.Adapter, stg *staging, sourceName string, errSink metrics.ErrorSink) error {
	priority := navdata.PriorityBase

	if err := adapter.Airports(ctx, func(a navdata.Airport) error {
		stg.addAirport(a, priority)
		return nil
	}); err != nil {
		return fmt.Errorf("loading airports from %s: %w", sourceName, err)
	}

	if err := adapter.Runways(ctx, func(airportIdent string, end relsource.RunwayEndInput) error {
		stg.addRunwayEnd(airportIdent, runway.End{
			Designator:  end.Designator,
			Center:      end.Threshold,
			LengthFeet:  end.LengthFeet,
			WidthFeet:   end.WidthFeet,
			HeadingTrue: end.HeadingTrue,
			Surface:     end.Surface,
		})
		return nil
	}); err != nil {
		return fmt.Errorf("loading runways from %s: %w", sourceName, err)
	}

	var rows []airway.Row
	if err := adapter.Airways(ctx, func(r relsource.AirwayRowInput) error {
		rows = append(rows, airway.Row{
			RouteIdentifier:         r.RouteIdentifier,
			Sequence:                r.Sequence,
			WaypointDescriptionCode: r.WaypointDescriptionCode,
			WaypointID:              r.WaypointID,
			Position:                r.Position,
			Level:                   r.Level,
			DirectionRestriction:    r.DirectionRestriction,
			AltitudeMin:             r.AltitudeMin,
			AltitudeMax:             r.AltitudeMax,
		})
		return nil
	}); err != nil {
		return fmt.Errorf("loading airways from %s: %w", sourceName, err)
	}
	stg.airways = append(stg.airways, airway.Resolve(rows, p.Config.Policy.MaxAirwaySegmentNM)...)

	resolver := newNavaidResolver(stg.navaidPositions())
	writer := procedure.NewWriter(resolver)
	for _, spec := range []struct {
		table string
		kind  navdata.ProcedureType
	}{
		{"tbl_sids", navdata.ProcedureSID},
		{"tbl_stars", navdata.ProcedureSTAR},
		{"tbl_iaps", navdata.ProcedureApproach},
	} {
		if err := adapter.Procedures(ctx, spec.table, spec.kind, writer); err != nil {
			p.Log.Warnf("loading procedures from %s.%s: %v", sourceName, spec.table, err)
			if errSink != nil {
				errSink(sourceName, spec.table, err.Error())
			}
		}
	}
	stg.procedures = append(stg.procedures, writer.Flush()...)
	return nil
}
