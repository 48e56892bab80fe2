// Package model holds the OpenADR 3 resource payloads exchanged with a VTN.
// Each payload owns its field-level invariants through Validate.
package model

import (
	"time"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// ProgramType categorises a demand-response program.
type ProgramType string

const (
	ProgramTypeDemandResponse  ProgramType = "DemandResponse"
	ProgramTypeTimeOfUse       ProgramType = "TimeOfUse"
	ProgramTypeRealTimePricing ProgramType = "RealTimePricing"
)

// TargetType is the customer class a program applies to.
type TargetType string

const (
	TargetResidential TargetType = "Residential"
	TargetCommercial  TargetType = "Commercial"
	TargetIndustrial  TargetType = "Industrial"
)

// Program is an OpenADR program offered by a retailer.
type Program struct {
	ID                   string       `json:"id"`
	CreatedDateTime      *time.Time   `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time   `json:"modificationDateTime,omitempty"`
	ProgramName          string       `json:"programName"`
	ProgramLongName      string       `json:"programLongName,omitempty"`
	RetailerName         string       `json:"retailerName"`
	RetailerLongName     string       `json:"retailerLongName,omitempty"`
	ProgramType          ProgramType  `json:"programType,omitempty"`
	Country              string       `json:"country"`
	PrincipalSubdivision string       `json:"principalSubdivision,omitempty"`
	TimeZoneOffset       string       `json:"timeZoneOffset,omitempty"`
	BindingEvents        *bool        `json:"bindingEvents,omitempty"`
	LocalPrice           *bool        `json:"localPrice,omitempty"`
	Targets              []TargetType `json:"targets"`
}

// Validate checks id, programName, retailerName, country and targets, in that order.
func (p Program) Validate() error {
	if err := validation.RequireNonEmpty("id", p.ID); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("programName", p.ProgramName); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("retailerName", p.RetailerName); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("country", p.Country); err != nil {
		return err
	}
	if len(p.Targets) == 0 {
		return errs.Validation("targets", "targets cannot be empty")
	}
	return nil
}

// ProgramQuery filters GET /programs.
type ProgramQuery struct {
	Targets []TargetType
	validation.SearchParams
}
