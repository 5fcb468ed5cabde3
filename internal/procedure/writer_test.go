package procedure

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

type fakeResolver struct {
	exact map[string]geo.Position
}

func (f *fakeResolver) ByIdentRegionType(ident, region string) (geo.Position, bool) {
	p, ok := f.exact[ident]
	return p, ok
}
func (f *fakeResolver) NearestByIdent(ident string, near geo.Position) (geo.Position, bool) {
	return geo.Position{}, false
}
func (f *fakeResolver) Synthesize(ident string, at geo.Position) geo.Position {
	return at
}

func TestWriterFlushesOnTransitionAndProcedureBoundaries(t *testing.T) {
	r := &fakeResolver{exact: map[string]geo.Position{"ALPHA": {0, 0}, "BRAVO": {1, 1}, "CHARLIE": {2, 2}}}
	w := NewWriter(r)

	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureSID, ProcedureIdent: "DEP1", TransitionIdent: "TRANS1", Sequence: 1, FixIdent: "ALPHA"})
	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureSID, ProcedureIdent: "DEP1", TransitionIdent: "TRANS1", Sequence: 2, FixIdent: "BRAVO"})
	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureSID, ProcedureIdent: "DEP1", TransitionIdent: "", Sequence: 3, FixIdent: "CHARLIE"})

	procs := w.Flush()
	if len(procs) != 1 {
		t.Fatalf("Flush() returned %d procedures, want 1", len(procs))
	}
	p := procs[0]
	if len(p.Transitions) != 1 || len(p.Transitions[0].Legs) != 2 {
		t.Fatalf("expected one transition with 2 legs, got %+v", p.Transitions)
	}
	if len(p.Legs) != 1 {
		t.Fatalf("expected 1 common-route leg, got %d", len(p.Legs))
	}
}

func TestWriterSeparatesProceduresAtBoundary(t *testing.T) {
	r := &fakeResolver{exact: map[string]geo.Position{"ALPHA": {0, 0}, "BRAVO": {1, 1}}}
	w := NewWriter(r)

	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureSID, ProcedureIdent: "DEP1", Sequence: 1, FixIdent: "ALPHA"})
	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureSID, ProcedureIdent: "DEP2", Sequence: 1, FixIdent: "BRAVO"})

	procs := w.Flush()
	if len(procs) != 2 {
		t.Fatalf("Flush() returned %d procedures, want 2", len(procs))
	}
	if procs[0].Ident != "DEP1" || procs[1].Ident != "DEP2" {
		t.Errorf("unexpected procedure idents: %q, %q", procs[0].Ident, procs[1].Ident)
	}
}

func TestUnresolvedFixIsSynthesizedNotDropped(t *testing.T) {
	r := &fakeResolver{exact: map[string]geo.Position{}}
	w := NewWriter(r)
	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureApproach, ProcedureIdent: "ILS13", Sequence: 1, FixIdent: "UNKWN", FixPosition: geo.Position{5, 5}})

	procs := w.Flush()
	if len(procs) != 1 || len(procs[0].Legs) != 1 {
		t.Fatalf("expected the unresolved-fix leg to survive, got %+v", procs)
	}
	if procs[0].Legs[0].FixPosition != (geo.Position{5, 5}) {
		t.Errorf("synthesized fix position = %v, want the supplied coordinate", procs[0].Legs[0].FixPosition)
	}
}

func TestHoldingPathTerminationReadsDistanceColumnAsTime(t *testing.T) {
	r := &fakeResolver{exact: map[string]geo.Position{"ALPHA": {0, 0}}}
	w := NewWriter(r)
	w.Add(Input{AirportIdent: "KXYZ", RouteType: navdata.ProcedureApproach, ProcedureIdent: "ILS13", Sequence: 1, FixIdent: "ALPHA", PathTermination: "HM", RouteDistanceOrHoldingTime: 1.5})

	procs := w.Flush()
	leg := procs[0].Legs[0]
	if !leg.IsHold {
		t.Error("expected IsHold = true for path termination HM")
	}
	if leg.HoldTimeMinutes != 1.5 {
		t.Errorf("HoldTimeMinutes = %v, want 1.5", leg.HoldTimeMinutes)
	}
	if leg.DistanceNM != 0 {
		t.Errorf("DistanceNM = %v, want 0 for a holding leg", leg.DistanceNM)
	}
}
