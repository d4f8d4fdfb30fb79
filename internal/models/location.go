package models

// SessionKind classifies what a faculty member is doing in a slot.
type SessionKind string

const (
	SessionKindClass    SessionKind = "class"
	SessionKindLunch    SessionKind = "lunch"
	SessionKindLab      SessionKind = "lab"
	SessionKindResearch SessionKind = "research"
	SessionKindFree     SessionKind = "free"
	SessionKindOffHours SessionKind = "off_hours"
	SessionKindDone     SessionKind = "done"
)

// LocationStatus is the predicted whereabouts of a faculty member at an instant.
type LocationStatus struct {
	Message string        `json:"message"`
	Kind    SessionKind   `json:"kind"`
	Day     Weekday       `json:"day"`
	Time    string        `json:"time"`
	Slot    *TimeSlot     `json:"slot,omitempty"`
	Session *ClassSession `json:"session,omitempty"`
	Next    *ClassSession `json:"next,omitempty"`
}
