package model

import (
	"time"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// Event is a demand-response event scheduled under a program.
type Event struct {
	ID                   string     `json:"id"`
	CreatedDateTime      *time.Time `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time `json:"modificationDateTime,omitempty"`
	ProgramID            string     `json:"programID"`
	EventName            string     `json:"eventName"`
	EventType            string     `json:"eventType,omitempty"`
	Priority             *int       `json:"priority,omitempty"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
}

// Validate checks id, programID, eventName, then that the window is non-empty.
func (e Event) Validate() error {
	if err := validation.RequireNonEmpty("id", e.ID); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("programID", e.ProgramID); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("eventName", e.EventName); err != nil {
		return err
	}
	if !e.StartTime.Before(e.EndTime) {
		return errs.Validation("startTime", "startTime must be before endTime")
	}
	return nil
}

// Duration is the length of the event window.
func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}
