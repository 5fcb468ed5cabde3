// Package navdata defines the output schema's entities in their
// semantic (pre-SQL) form: the row shapes every adapter produces and the
// cross-reference/geometry passes operate on, per spec §3. Adapted from
// mmp-vice/pkg/aviation's FAAAirport/Navaid/Fix/Runway (db.go) and
// Waypoint/AltitudeRestriction (route.go), generalized from "one
// in-memory simulator database" to "rows destined for the output store,
// with explicit source-priority and identifier fields the simulator
// never needed because it only ever loaded one source."
package navdata

import "github.com/flightdata/navdbc/internal/geo"

// RowID is a monotonic per-type identifier assigned during load, per
// spec §6 ("Primary keys are monotonic per-type counters assigned during
// load").
type RowID int64

// SourcePriority orders duplicate identifiers when more than one source
// area or adapter defines the same ident (invariant 7). Higher wins.
type SourcePriority int

const (
	PriorityBase SourcePriority = iota
	PriorityCommunity
	PriorityAddon
	PriorityOverride
)

// Airport is the Airport entity of spec §3.
type Airport struct {
	ID             RowID
	Ident          string
	Name           string
	Position       geo.Position
	AltitudeFeet   int
	BoundingRect   geo.Rect
	Country        string
	Region         string
	MagneticVar    float32
	NumRunways     int
	NumApproaches  int
	NumILS         int
	Rating         int
	Military       bool
	Closed         bool
	Source         SourcePriority
	InsertionOrder int
}

// RunwayEnd is one threshold of a Runway.
type RunwayEnd struct {
	ID                         RowID
	Designator                string // e.g. "13R"
	Threshold                  geo.Position
	HeadingTrue                float32
	HeadingMagnetic            float32
	DisplacedThresholdDistNM   float32
	ILSIdent                   string // back-reference by identifier; resolved to ILSID in cross-reference
	ILSID                      RowID
	CanLand, CanTakeoff        bool
	Closed                     bool
}

// Runway pairs two RunwayEnds, per invariant 1.
type Runway struct {
	ID            RowID
	AirportID     RowID
	PrimaryEnd    RunwayEnd
	SecondaryEnd  RunwayEnd
	LengthFeet    float32
	WidthFeet     float32
	HeadingTrue   float32
	Center        geo.Position
	Surface       string
	AltitudeFeet  int
}

// NavaidType distinguishes the flavor of a position-fix entity.
type NavaidType int

const (
	NavaidVOR NavaidType = iota
	NavaidNDB
	NavaidDME
	NavaidWaypoint
	NavaidMarker
	NavaidILS
)

// Navaid covers Waypoint/VOR/NDB/Marker records (spec §3): they share an
// identifier+region+type+position+magvar shape, distinguished by Type.
type Navaid struct {
	ID          RowID
	Ident       string
	Region      string
	Type        NavaidType
	Position    geo.Position
	FrequencyHz int64 // 0 if not applicable (waypoints)
	Channel     string // TACAN channel, set by the TACAN pass (§4.9)
	MagneticVar float32
	AirportID   RowID // 0 if not associated with an airport
	Synthesized bool  // created by the "clean waypoints" coordinate-only fallback (§4.10)
	Source      SourcePriority
}

// ILS is the Instrument Landing System entity: a localizer plus the
// feather polygon derived from it (§4.7).
type ILS struct {
	ID              RowID
	Ident           string
	Region          string
	Origin          geo.Position
	HeadingTrue     float32
	FrequencyHz     int64
	WidthDegrees    float32
	RunwayEndID     RowID
	AirportID       RowID
	Feather         [3]geo.Position
	MagneticVar     float32
}

// AirwayLevel mirrors spec §4.6's H/L/B flight-level column mapping.
type AirwayLevel int

const (
	AirwayBoth AirwayLevel = iota
	AirwayVictor
	AirwayJet
)

// AirwayDirection mirrors spec §4.6's direction-restriction mapping.
type AirwayDirection int

const (
	AirwayDirectionNone AirwayDirection = iota
	AirwayDirectionForward
	AirwayDirectionBackward
)

// AirwaySegment is one directed edge of a named airway, per spec §3/§4.6.
type AirwaySegment struct {
	ID           RowID
	Name         string
	Fragment     int
	Sequence     int
	Level        AirwayLevel
	FromWaypoint string
	ToWaypoint   string
	FromID       RowID
	ToID         RowID
	Direction    AirwayDirection
	MinAltitude  int
	MaxAltitude  int
	BoundingRect geo.Rect
}

// ProcedureType distinguishes SID/STAR/approach, per spec §3.
type ProcedureType int

const (
	ProcedureSID ProcedureType = iota
	ProcedureSTAR
	ProcedureApproach
)

// AltitudeDescription mirrors ARINC 424's altitude_description column:
// how alt1/alt2 constrain a leg (at, at-or-above, at-or-below, between).
type AltitudeDescription int

const (
	AltitudeNone AltitudeDescription = iota
	AltitudeAt
	AltitudeAtOrAbove
	AltitudeAtOrBelow
	AltitudeBetween
)

// Leg is one step of a Procedure's route, per spec §3.
type Leg struct {
	Sequence            int
	PathTermination     string // e.g. "TF", "CF", "DF", "HM"
	TurnDirection        byte
	FixIdent            string
	FixRegion           string
	FixPosition         geo.Position
	RecommendedNavaid   string
	RecommendedPosition geo.Position
	Theta               float32 // bearing from recommended navaid
	Rho                 float32 // distance from recommended navaid, NM
	CourseTrue          float32
	AltitudeDescription AltitudeDescription
	Altitude1, Altitude2 int
	SpeedLimit          int
	IsHold              bool
	HoldTimeMinutes     float32 // path_termination starting with "H": distance column read as time
	DistanceNM          float32 // otherwise: read as distance
	VerticalAngle       float32 // optional glidepath angle, final approach segment only (supplemented, §5 SPEC_FULL)
	RNP                 float32 // optional, supplemented
	CenterFix           string  // for arc legs (RF, AF)
}

// TransitionKind distinguishes enroute transitions (en-route fix into a
// procedure) from approach transitions (IAF to intermediate fix);
// supplemented from original_source's transition.cpp.
type TransitionKind int

const (
	TransitionEnroute TransitionKind = iota
	TransitionApproach
)

// Transition is a named leg sequence joining an en-route point (or IAF)
// to a procedure's common route.
type Transition struct {
	Ident string
	Kind  TransitionKind
	Legs  []Leg
}

// Procedure is a SID/STAR/approach and its transitions, per spec §3.
type Procedure struct {
	ID           RowID
	AirportID    RowID
	AirportIdent string // resolved to AirportID in the cross-reference pass
	Type         ProcedureType
	Ident        string
	SuffixAlpha  string // approach suffix letter, e.g. "ILS 13L Z"
	RunwayEnd    string
	Legs         []Leg // the common/main route
	Transitions  []Transition
}

// AirspaceBoundary is the Airspace boundary entity of spec §3.
type AirspaceBoundary struct {
	ID             RowID
	Type           string
	Name           string
	Region         string // ICAO region code the source attributes to this volume, if any
	FloorFeet      int
	CeilingFeet    int
	Polygon        []geo.Position
	COMFrequencies []int64
}

// MetarEntry is the Metar entry of spec §3.
type MetarEntry struct {
	Station   string
	Timestamp int64 // unix seconds; zero means "unknown, keep whatever we have"
	Body      string
	Position  geo.Position
}

// MetarResult is returned by the METAR index's lookup, preserving the
// caller's original request per spec §4.11.
type MetarResult struct {
	RequestIdent    string
	RequestPosition geo.Position
	Station         string // the station that actually matched (may differ from RequestIdent)
	Body            string
	Found           bool
}
