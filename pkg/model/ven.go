package model

import (
	"time"

	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// VEN is a virtual end node registered with the VTN.
type VEN struct {
	ID                   string     `json:"id,omitempty"`
	CreatedDateTime      *time.Time `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time `json:"modificationDateTime,omitempty"`
	VENName              string     `json:"venName"`
	Targets              []string   `json:"targets,omitempty"`
}

func (v VEN) Validate() error {
	return validation.RequireNonEmpty("venName", v.VENName)
}

// VENQuery filters GET /vens.
type VENQuery struct {
	VENName string
	validation.SearchParams
}

// Resource is a device or load registered under a VEN.
type Resource struct {
	ID                   string     `json:"id,omitempty"`
	CreatedDateTime      *time.Time `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time `json:"modificationDateTime,omitempty"`
	ResourceName         string     `json:"resourceName"`
	VENID                string     `json:"venID"`
	Targets              []string   `json:"targets,omitempty"`
}

func (r Resource) Validate() error {
	if err := validation.RequireNonEmpty("resourceName", r.ResourceName); err != nil {
		return err
	}
	return validation.RequireNonEmpty("venID", r.VENID)
}
