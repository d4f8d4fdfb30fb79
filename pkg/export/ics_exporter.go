package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one VEVENT; Weekly events repeat every week from Start.
type CalendarEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Weekly      bool
}

// ICSExporter renders events as an iCalendar (RFC 5545) feed.
type ICSExporter struct {
	productID string
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{productID: "-//faculty-locator//timetable//EN"}
}

// Render serialises the events under the given calendar name.
func (e *ICSExporter) Render(name string, events []CalendarEvent, stamp time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, item := range events {
		if item.UID == "" {
			return nil, fmt.Errorf("event %q has no uid", item.Summary)
		}
		if !item.End.After(item.Start) {
			return nil, fmt.Errorf("event %q ends before it starts", item.Summary)
		}
		event := cal.AddEvent(item.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(item.Start)
		event.SetEndAt(item.End)
		event.SetSummary(item.Summary)
		if item.Location != "" {
			event.SetLocation(item.Location)
		}
		if item.Description != "" {
			event.SetDescription(item.Description)
		}
		if item.Weekly {
			event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
		}
	}

	return []byte(cal.Serialize()), nil
}
