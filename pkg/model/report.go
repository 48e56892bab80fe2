package model

import (
	"encoding/json"
	"time"

	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// Report carries data a VEN sends back to the VTN for a program or event.
type Report struct {
	ID                   string          `json:"id,omitempty"`
	CreatedDateTime      *time.Time      `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time      `json:"modificationDateTime,omitempty"`
	ProgramID            string          `json:"programID"`
	EventID              string          `json:"eventID,omitempty"`
	ClientName           string          `json:"clientName"`
	ReportName           string          `json:"reportName"`
	Resources            json.RawMessage `json:"resources,omitempty"`
}

// Validate checks programID, clientName and reportName.
func (r Report) Validate() error {
	if err := validation.RequireNonEmpty("programID", r.ProgramID); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("clientName", r.ClientName); err != nil {
		return err
	}
	return validation.RequireNonEmpty("reportName", r.ReportName)
}

// ReportQuery filters GET /reports.
type ReportQuery struct {
	ProgramID  string
	ClientName string
	validation.SearchParams
}
