package sceneryadapter

import (
	"github.com/flightdata/navdbc/internal/binreader"
	"github.com/flightdata/navdbc/internal/navdata"
)

// Approach is one decoded approach record, per approach.cpp's field
// layout: a primary header followed by leg, missed-leg, and transition
// subrecords.
type Approach struct {
	Suffix            byte
	RunwayNumber      byte
	RunwayDesignator  byte
	GPSOverlay        bool
	FixType           byte
	FixIdent          string
	FixRegion         string
	FixAirportIdent   string
	Altitude          float32
	Heading           float32
	MissedAltitude    float32

	Legs        []navdata.Leg
	MissedLegs  []navdata.Leg
	Transitions []Transition
}

// Transition is one decoded approach/enroute transition record, per
// transition.cpp. It has no Kind: the binary format carries no
// enroute/approach discriminator, and Approach.toProcedure marks every
// decoded transition navdata.TransitionApproach.
type Transition struct {
	Ident string
	Legs  []navdata.Leg
}

// readApproach decodes one approach record's header and subrecords. r is
// positioned just past the approach record's own tag/length header;
// frameEnd is its end offset. newAirportHeaderVariant mirrors approach.cpp's
// "airportRecType == rec::MSFS_APPROACH_NEW" branch, which reads four
// extra padding bytes after the header fields before subrecords begin.
func readApproach(r *binreader.Reader, frameEnd int, newAirportHeaderVariant bool, onUnknown binreader.UnknownTagFunc) (Approach, error) {
	var a Approach
	var err error

	suffix, err := r.Int8()
	if err != nil {
		return a, err
	}
	a.Suffix = byte(suffix)

	rn, err := r.Uint8()
	if err != nil {
		return a, err
	}
	a.RunwayNumber = rn

	typeFlags, err := r.Uint8()
	if err != nil {
		return a, err
	}
	a.RunwayDesignator = (typeFlags >> 4) & 0x7
	a.GPSOverlay = typeFlags&0x80 == 0x80

	// numTransitions/numLegs/numMissedLegs: declared counts the teacher
	// reads and then ignores (Q_UNUSED) in favor of each subrecord's own
	// length-prefixed leg count; this adapter does the same.
	if _, err = r.Uint8(); err != nil {
		return a, err
	}
	if _, err = r.Uint8(); err != nil {
		return a, err
	}
	if _, err = r.Uint8(); err != nil {
		return a, err
	}

	fixFlags, err := r.Uint32()
	if err != nil {
		return a, err
	}
	a.FixType = byte(fixFlags & 0xf)
	a.FixIdent = decodeIdent((fixFlags>>5)&0xfffffff, 5)

	fixIdentFlags, err := r.Uint32()
	if err != nil {
		return a, err
	}
	a.FixRegion = decodeIdent(fixIdentFlags&0x7ff, 2)
	a.FixAirportIdent = decodeIdent((fixIdentFlags>>11)&0x1fffff, 4)

	if a.Altitude, err = r.Float32(); err != nil {
		return a, err
	}
	if a.Heading, err = r.Float32(); err != nil {
		return a, err
	}
	if a.MissedAltitude, err = r.Float32(); err != nil {
		return a, err
	}

	if newAirportHeaderVariant {
		if err := r.Seek(r.Offset() + 4); err != nil {
			return a, err
		}
	}

	handlers := map[uint16]binreader.DispatchFunc{
		tagLegs:        legsHandler(&a.Legs),
		tagLegsMSFS:    legsHandler(&a.Legs),
		tagLegsMSFS116: legsHandler(&a.Legs),
		tagLegsMSFS118: legsHandler(&a.Legs),

		tagMissedLegs:        legsHandler(&a.MissedLegs),
		tagMissedLegsMSFS:    legsHandler(&a.MissedLegs),
		tagMissedLegsMSFS116: legsHandler(&a.MissedLegs),
		tagMissedLegsMSFS118: legsHandler(&a.MissedLegs),

		tagTransition:        transitionHandler(&a.Transitions),
		tagTransitionMSFS:    transitionHandler(&a.Transitions),
		tagTransitionMSFS116: transitionHandler(&a.Transitions),
	}
	if err := binreader.Walk(r, frameEnd, handlers, onUnknown); err != nil {
		return a, err
	}
	return a, nil
}

func legsHandler(dst *[]navdata.Leg) binreader.DispatchFunc {
	return func(r *binreader.Reader, tag uint16, frameEnd int) error {
		legs, err := readLegList(r, tag, frameEnd)
		if err != nil {
			return err
		}
		*dst = append(*dst, legs...)
		return nil
	}
}

func transitionHandler(dst *[]Transition) binreader.DispatchFunc {
	return func(r *binreader.Reader, tag uint16, frameEnd int) error {
		t, err := readTransition(r, tag, frameEnd)
		if err != nil {
			return err
		}
		*dst = append(*dst, t)
		return nil
	}
}

// readLegList reads a length-prefixed list of legs, per approach.cpp's
// "int num = bs->readUShort(); for i<num: legs.append(ApproachLeg(...))".
func readLegList(r *binreader.Reader, tag uint16, frameEnd int) ([]navdata.Leg, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	version := legVersionFromTag(tag)
	legs := make([]navdata.Leg, 0, n)
	for i := 0; i < int(n); i++ {
		leg, err := readApproachLeg(r, version)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// readApproachLeg decodes one leg record. The field set follows the
// relational source's ProcedureInput shape (spec §4.3) so both adapters
// converge on the same navdata.Leg; version gates the two fields the
// distillation's original supplemented (vertical angle, RNP), present
// only from MSFS116/118 onward.
func readApproachLeg(r *binreader.Reader, version Version) (navdata.Leg, error) {
	var leg navdata.Leg

	pathTerm, err := r.Uint8()
	if err != nil {
		return leg, err
	}
	leg.PathTermination = pathTerminationCodes[pathTerm%byte(len(pathTerminationCodes))]

	turn, err := r.Uint8()
	if err != nil {
		return leg, err
	}
	leg.TurnDirection = turn

	recFlags, err := r.Uint32()
	if err != nil {
		return leg, err
	}
	leg.RecommendedNavaid = decodeIdent((recFlags>>5)&0xfffffff, 5)

	fixFlags, err := r.Uint32()
	if err != nil {
		return leg, err
	}
	leg.FixRegion = decodeIdent(fixFlags&0x7ff, 2)
	leg.FixIdent = decodeIdent((fixFlags>>11)&0x1fffff, 5)

	if leg.Theta, err = r.Float32(); err != nil {
		return leg, err
	}
	if leg.Rho, err = r.Float32(); err != nil {
		return leg, err
	}
	if leg.CourseTrue, err = r.Float32(); err != nil {
		return leg, err
	}

	distOrTime, err := r.Float32()
	if err != nil {
		return leg, err
	}
	leg.IsHold = isHoldingPathTermination(leg.PathTermination)
	if leg.IsHold {
		leg.HoldTimeMinutes = distOrTime
	} else {
		leg.DistanceNM = distOrTime
	}

	altDescCode, err := r.Uint8()
	if err != nil {
		return leg, err
	}
	leg.AltitudeDescription = altitudeDescriptionFromCode(altDescCode)

	alt1, err := r.Float32()
	if err != nil {
		return leg, err
	}
	leg.Altitude1 = int(alt1)

	alt2, err := r.Float32()
	if err != nil {
		return leg, err
	}
	leg.Altitude2 = int(alt2)

	speed, err := r.Uint16()
	if err != nil {
		return leg, err
	}
	leg.SpeedLimit = int(speed)

	if version == VersionMSFS116 || version == VersionMSFS118 {
		if leg.VerticalAngle, err = r.Float32(); err != nil {
			return leg, err
		}
	}
	if version == VersionMSFS118 {
		if leg.RNP, err = r.Float32(); err != nil {
			return leg, err
		}
	}

	return leg, nil
}

// pathTerminationCodes is indexed by the raw on-disk leg-type byte.
// Only a subset of ARINC 424 path/terminator codes are represented by a
// single byte in the binary format; unused slots fall back to "DF" since
// a direct-to-fix leg needs no extra context to remain valid.
var pathTerminationCodes = []string{
	"IF", "TF", "CF", "DF", "FA", "FC", "FD", "FM",
	"CA", "CD", "CI", "CR", "RF", "AF", "VA", "VD",
	"VI", "VM", "VR", "PI", "HA", "HF", "HM",
}

func isHoldingPathTermination(code string) bool {
	return len(code) > 0 && code[0] == 'H'
}

func altitudeDescriptionFromCode(code uint8) navdata.AltitudeDescription {
	switch code {
	case 1:
		return navdata.AltitudeAtOrAbove
	case 2:
		return navdata.AltitudeAtOrBelow
	case 3:
		return navdata.AltitudeBetween
	case 4:
		return navdata.AltitudeAt
	default:
		return navdata.AltitudeNone
	}
}

// readTransition decodes one transition record, per transition.cpp:
// type byte, leg count, fix flags, altitude, and -- for DME-type
// transitions only -- a DME ident/region/airport/radial/distance block.
func readTransition(r *binreader.Reader, tag uint16, frameEnd int) (Transition, error) {
	var t Transition

	transType, err := r.Uint8()
	if err != nil {
		return t, err
	}
	if _, err = r.Uint8(); err != nil { // numLegs, ignored like the teacher does
		return t, err
	}

	transFixFlags, err := r.Uint32()
	if err != nil {
		return t, err
	}
	t.Ident = decodeIdent((transFixFlags>>5)&0xfffffff, 5)

	if _, err = r.Uint32(); err != nil { // fixRegion/fixAirportIdent, unused by Transition here
		return t, err
	}
	if _, err = r.Float32(); err != nil { // altitude
		return t, err
	}

	const transitionTypeDME = 1
	if transType == transitionTypeDME {
		if _, err = r.Uint32(); err != nil { // dmeIdent
			return t, err
		}
		if _, err = r.Uint32(); err != nil { // dmeRegion/dmeAirportIdent
			return t, err
		}
		if _, err = r.Int32(); err != nil { // dmeRadial
			return t, err
		}
		if _, err = r.Float32(); err != nil { // dmeDist
			return t, err
		}
	}

	if tag == tagTransitionMSFS116 {
		if err := r.Seek(r.Offset() + 8); err != nil {
			return t, err
		}
	}

	handlers := map[uint16]binreader.DispatchFunc{
		tagTransitionLegs:        legsHandler(&t.Legs),
		tagTransitionLegsMSFS:    legsHandler(&t.Legs),
		tagTransitionLegsMSFS116: legsHandler(&t.Legs),
		tagTransitionLegsMSFS118: legsHandler(&t.Legs),
	}
	if err := binreader.Walk(r, frameEnd, handlers, nil); err != nil {
		return t, err
	}
	return t, nil
}
