// Package procedure implements the procedure-writer state machine of
// spec §4.10: a stateful builder that accumulates procedure input rows,
// arriving in canonical (airport, procedure, route_type, transition,
// sequence) order, into navdata.Procedure records, flushing whenever the
// airport, procedure, or transition changes. Grounded on
// mmp-vice/pkg/aviation/route.go's Waypoint/AltitudeRestriction shapes
// (reused here as navdata.Leg) and on spec design note "procedure-writer
// state machine spanning many rows": an explicit accumulator with
// boundary-triggered flush, no hidden cross-call state.
package procedure

import (
	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// Input is one procedure-input row as the relational adapter (§4.3)
// produces it: "sequence number, route type, SID/STAR/approach
// identifier, transition identifier, fix identifier+region+position,
// recommended-navaid identifier+position, theta/rho/course, altitude
// description and two altitude values, transition altitude, speed
// limit, TAA/holding context."
type Input struct {
	AirportIdent      string
	RouteType         navdata.ProcedureType
	ProcedureIdent    string
	SuffixAlpha       string
	RunwayEnd         string
	TransitionIdent   string
	TransitionKind    navdata.TransitionKind
	Sequence          int
	PathTermination   string
	TurnDirection     byte
	FixIdent          string
	FixRegion         string
	FixPosition       geo.Position
	RecommendedNavaid string
	RecommendedRegion string
	RecommendedPos    geo.Position
	Theta, Rho        float32
	CourseTrue        float32
	AltDescription    navdata.AltitudeDescription
	Altitude1         int
	Altitude2         int
	TransitionAlt     int
	SpeedLimit        int
	RouteDistanceOrHoldingTime float32 // dual-purpose column; see HoldTimeMinutes/DistanceNM below
	CenterFix         string
}

// FixResolver resolves a procedure leg's fix reference to a position,
// per spec §4.10's three-step preference order. ByIdentRegionType is
// step 1 (exact match); NearestByIdent is step 2 (identifier match,
// nearest to the supplied coordinate, used when region/type disagree
// across sources); Synthesize is step 3, creating a coordinate-only
// waypoint so the leg is never dropped.
type FixResolver interface {
	ByIdentRegionType(ident, region string) (geo.Position, bool)
	NearestByIdent(ident string, near geo.Position) (geo.Position, bool)
	Synthesize(ident string, at geo.Position) geo.Position
}

func resolve(resolver FixResolver, ident, region string, at geo.Position) geo.Position {
	if pos, ok := resolver.ByIdentRegionType(ident, region); ok {
		return pos
	}
	if pos, ok := resolver.NearestByIdent(ident, at); ok {
		return pos
	}
	return resolver.Synthesize(ident, at)
}

// isHoldingPathTermination reports whether a path-termination code marks
// a holding pattern leg, per spec §4.3: "Path-termination codes starting
// with 'H' indicate a holding pattern."
func isHoldingPathTermination(code string) bool {
	return len(code) > 0 && code[0] == 'H'
}

func toLeg(in Input, resolver FixResolver) navdata.Leg {
	fixPos := resolve(resolver, in.FixIdent, in.FixRegion, in.FixPosition)
	recPos := geo.Position{}
	if in.RecommendedNavaid != "" {
		recPos = resolve(resolver, in.RecommendedNavaid, in.RecommendedRegion, in.RecommendedPos)
	}

	leg := navdata.Leg{
		Sequence:            in.Sequence,
		PathTermination:     in.PathTermination,
		TurnDirection:       in.TurnDirection,
		FixIdent:            in.FixIdent,
		FixRegion:           in.FixRegion,
		FixPosition:         fixPos,
		RecommendedNavaid:   in.RecommendedNavaid,
		RecommendedPosition: recPos,
		Theta:               in.Theta,
		Rho:                 in.Rho,
		CourseTrue:          in.CourseTrue,
		AltitudeDescription: in.AltDescription,
		Altitude1:           in.Altitude1,
		Altitude2:           in.Altitude2,
		SpeedLimit:          in.SpeedLimit,
		CenterFix:           in.CenterFix,
		IsHold:              isHoldingPathTermination(in.PathTermination),
	}
	if leg.IsHold {
		leg.HoldTimeMinutes = in.RouteDistanceOrHoldingTime
	} else {
		leg.DistanceNM = in.RouteDistanceOrHoldingTime
	}
	return leg
}

// Writer accumulates Input rows into navdata.Procedure records. Call
// Add for every row in canonical order, then Flush once after the last
// row to emit the final in-progress procedure.
type Writer struct {
	resolver FixResolver

	airport       string
	procedure     string
	transition    string
	transitionKnd navdata.TransitionKind

	current  *navdata.Procedure
	curLegs  []navdata.Leg
	done     []navdata.Procedure
}

func NewWriter(resolver FixResolver) *Writer {
	return &Writer{resolver: resolver}
}

// Add ingests one row, flushing the in-progress procedure or transition
// first if this row starts a new one, per spec §4.10's boundary rules:
// "On boundary changes (airport, procedure, transition), flushes the
// accumulated legs as a procedure record."
func (w *Writer) Add(in Input) {
	airportChanged := in.AirportIdent != w.airport
	procedureChanged := airportChanged || in.ProcedureIdent != w.procedure || in.RouteType != procedureTypeOf(w.current)
	transitionChanged := procedureChanged || in.TransitionIdent != w.transition

	if procedureChanged {
		w.flushProcedure()
		w.current = &navdata.Procedure{
			Type:         in.RouteType,
			Ident:        in.ProcedureIdent,
			SuffixAlpha:  in.SuffixAlpha,
			RunwayEnd:    in.RunwayEnd,
			AirportIdent: in.AirportIdent,
		}
		w.airport = in.AirportIdent
		w.procedure = in.ProcedureIdent
		w.transition = ""
	} else if transitionChanged {
		w.flushTransition()
	}

	w.transition = in.TransitionIdent
	w.transitionKnd = in.TransitionKind
	w.curLegs = append(w.curLegs, toLeg(in, w.resolver))
}

func procedureTypeOf(p *navdata.Procedure) navdata.ProcedureType {
	if p == nil {
		return navdata.ProcedureType(-1)
	}
	return p.Type
}

func (w *Writer) flushTransition() {
	if len(w.curLegs) == 0 {
		return
	}
	if w.transition == "" {
		w.current.Legs = append(w.current.Legs, w.curLegs...)
	} else {
		w.current.Transitions = append(w.current.Transitions, navdata.Transition{
			Ident: w.transition,
			Kind:  w.transitionKnd,
			Legs:  append([]navdata.Leg{}, w.curLegs...),
		})
	}
	w.curLegs = nil
}

func (w *Writer) flushProcedure() {
	w.flushTransition()
	if w.current != nil {
		w.done = append(w.done, *w.current)
	}
	w.current = nil
}

// Flush finalizes any in-progress procedure and returns every completed
// navdata.Procedure seen so far. Safe to call once after the last Add.
func (w *Writer) Flush() []navdata.Procedure {
	w.flushProcedure()
	return w.done
}
