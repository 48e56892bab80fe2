package model

import (
	"fmt"
	"time"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// ObjectType names a resource kind a subscription can watch.
type ObjectType string

const (
	ObjectProgram      ObjectType = "PROGRAM"
	ObjectEvent        ObjectType = "EVENT"
	ObjectReport       ObjectType = "REPORT"
	ObjectSubscription ObjectType = "SUBSCRIPTION"
	ObjectVEN          ObjectType = "VEN"
	ObjectResource     ObjectType = "RESOURCE"
)

// Operation names a change a subscription is notified about.
type Operation string

const (
	OperationGet    Operation = "GET"
	OperationPost   Operation = "POST"
	OperationPut    Operation = "PUT"
	OperationDelete Operation = "DELETE"
)

// ObjectOperation binds watched objects and operations to a callback.
type ObjectOperation struct {
	Objects     []ObjectType `json:"objects"`
	Operations  []Operation  `json:"operations"`
	CallbackURL string       `json:"callbackUrl"`
	BearerToken string       `json:"bearerToken,omitempty"`
}

// Subscription asks the VTN to call back when watched objects change.
type Subscription struct {
	ID                   string            `json:"id,omitempty"`
	CreatedDateTime      *time.Time        `json:"createdDateTime,omitempty"`
	ModificationDateTime *time.Time        `json:"modificationDateTime,omitempty"`
	ClientName           string            `json:"clientName"`
	ProgramID            string            `json:"programID"`
	ObjectOperations     []ObjectOperation `json:"objectOperations"`
}

// Validate checks clientName, programID and every object operation.
func (s Subscription) Validate() error {
	if err := validation.RequireNonEmpty("clientName", s.ClientName); err != nil {
		return err
	}
	if err := validation.RequireNonEmpty("programID", s.ProgramID); err != nil {
		return err
	}
	if len(s.ObjectOperations) == 0 {
		return errs.Validation("objectOperations", "objectOperations cannot be empty")
	}
	for i, op := range s.ObjectOperations {
		field := fmt.Sprintf("objectOperations[%d]", i)
		if len(op.Objects) == 0 {
			return errs.Validation(field+".objects", "%s.objects cannot be empty", field)
		}
		if len(op.Operations) == 0 {
			return errs.Validation(field+".operations", "%s.operations cannot be empty", field)
		}
		if err := validation.RequireNonEmpty(field+".callbackUrl", op.CallbackURL); err != nil {
			return err
		}
	}
	return nil
}

// SubscriptionQuery filters GET /subscriptions.
type SubscriptionQuery struct {
	ProgramID  string
	ClientName string
	validation.SearchParams
}
