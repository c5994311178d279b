// internal/domain/shift/kind.go
package shift

// Kind identifies which block of the rotation a team is in on a shift day.
type Kind string

const (
	Morning Kind = "M"
	Evening Kind = "E"
	Night   Kind = "N"
	Off     Kind = "O"
)

// ChangeHour is the universal shift-change boundary for every team.
const ChangeHour = 7

type kindInfo struct {
	displayName string
	startHour   int
	endHour     int
	hasHours    bool
	working     bool
}

var kindTable = map[Kind]kindInfo{
	Morning: {displayName: "Morning", startHour: 7, endHour: 15, hasHours: true, working: true},
	Evening: {displayName: "Evening", startHour: 15, endHour: 23, hasHours: true, working: true},
	Night:   {displayName: "Night", startHour: 23, endHour: 7, hasHours: true, working: true},
	Off:     {displayName: "Off", working: false},
}

// Kinds lists every kind in rotation order.
func Kinds() []Kind {
	return []Kind{Morning, Evening, Night, Off}
}

// Code is the single-letter code used in shift codes.
func (k Kind) Code() string { return string(k) }

func (k Kind) DisplayName() string {
	if info, ok := kindTable[k]; ok {
		return info.displayName
	}
	return "Unknown"
}

// Hours returns the start and end hour; ok is false for Off.
func (k Kind) Hours() (start, end int, ok bool) {
	info, found := kindTable[k]
	if !found || !info.hasHours {
		return 0, 0, false
	}
	return info.startHour, info.endHour, true
}

func (k Kind) IsWorking() bool { return kindTable[k].working }

// CrossesMidnight reports whether the shift ends on the calendar day after it starts.
func (k Kind) CrossesMidnight() bool {
	start, end, ok := k.Hours()
	return ok && end < start
}

func (k Kind) IsValid() bool {
	_, ok := kindTable[k]
	return ok
}

func (k Kind) String() string { return k.DisplayName() }

// kindAt maps a normalized cycle position to its block.
func kindAt(pos int) Kind {
	switch {
	case pos < 2:
		return Morning
	case pos < 4:
		return Evening
	case pos < 6:
		return Night
	default:
		return Off
	}
}
