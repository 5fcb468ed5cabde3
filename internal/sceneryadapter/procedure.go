package sceneryadapter

import (
	"github.com/flightdata/navdbc/internal/navdata"
)

// toProcedure flattens a decoded Approach into the leg lists a
// navdata.Procedure needs directly -- unlike the relational adapter
// (§4.3), the binary adapter's approach record already arrives fully
// assembled (legs, missed legs, and transitions are subrecords of one
// approach, not separate streamed rows), so there is no boundary-
// detection state machine to run: internal/procedure.Writer exists for
// sources that stream rows one at a time, which this adapter does not.
func (a Approach) toProcedure(airportIdent, ident string, routeType navdata.ProcedureType, runwayEnd string) navdata.Procedure {
	p := navdata.Procedure{
		Type:         routeType,
		Ident:        ident,
		RunwayEnd:    runwayEnd,
		AirportIdent: airportIdent,
		Legs:         append([]navdata.Leg{}, a.Legs...),
	}
	for _, t := range a.Transitions {
		p.Transitions = append(p.Transitions, navdata.Transition{
			Ident: t.Ident,
			Kind:  navdata.TransitionApproach,
			Legs:  append([]navdata.Leg{}, t.Legs...),
		})
	}
	return p
}

// Procedures converts every approach decoded for one airport into
// navdata.Procedure records, per spec §4.2's "Adapter output is
// inserted into staging tables ... so downstream cross-reference passes
// treat all adapters uniformly" -- the output shape matches what
// internal/procedure.Writer.Flush produces for the relational adapter.
func (res AirportResult) Procedures() []navdata.Procedure {
	procs := make([]navdata.Procedure, 0, len(res.Approaches))
	for _, a := range res.Approaches {
		ident := approachIdent(a)
		runwayEnd := runwayEndName(a.RunwayNumber, a.RunwayDesignator)
		procs = append(procs, a.toProcedure(res.Airport.Ident, ident, navdata.ProcedureApproach, runwayEnd))
	}
	return procs
}

func approachIdent(a Approach) string {
	ident := "A" + runwayEndName(a.RunwayNumber, a.RunwayDesignator)
	if a.Suffix != 0 {
		ident += string(a.Suffix)
	}
	return ident
}

func runwayEndName(number, designator byte) string {
	const sideLetters = " LRC"
	side := byte(' ')
	if int(designator) < len(sideLetters) {
		side = sideLetters[designator]
	}
	if side == ' ' {
		return itoa2(number)
	}
	return itoa2(number) + string(side)
}

func itoa2(n byte) string {
	digits := "0123456789"
	if n >= 100 {
		n %= 100
	}
	return string([]byte{digits[n/10], digits[n%10]})
}
