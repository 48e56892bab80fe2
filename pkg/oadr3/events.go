package oadr3

import (
	"context"
	"net/http"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

func eventsPath(programID string) string {
	return "/programs/" + seg(programID) + "/events"
}

// SearchEvents lists the events of a program.
func (c *Client) SearchEvents(ctx context.Context, programID string, p validation.SearchParams) (*response.Response[[]model.Event], error) {
	return do[[]model.Event](ctx, c, call{
		op:     "SearchEvents",
		method: http.MethodGet,
		path:   eventsPath(programID),
		route:  "/programs/{id}/events",
		query:  pageQuery(nil, p),
		validate: func() error {
			if err := requireIDs("programID", programID); err != nil {
				return err
			}
			return p.Validate()
		},
	})
}

// CreateEvent creates e under programID.
func (c *Client) CreateEvent(ctx context.Context, programID string, e model.Event) (*response.Response[model.Event], error) {
	return do[model.Event](ctx, c, call{
		op:     "CreateEvent",
		method: http.MethodPost,
		path:   eventsPath(programID),
		route:  "/programs/{id}/events",
		body:   e,
		validate: func() error {
			if err := requireIDs("programID", programID); err != nil {
				return err
			}
			return e.Validate()
		},
	})
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, programID, eventID string) (*response.Response[model.Event], error) {
	return do[model.Event](ctx, c, call{
		op:       "GetEvent",
		method:   http.MethodGet,
		path:     eventsPath(programID) + "/" + seg(eventID),
		route:    "/programs/{id}/events/{eventID}",
		validate: func() error { return requireIDs("programID", programID, "eventID", eventID) },
	})
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, programID, eventID string, e model.Event) (*response.Response[model.Event], error) {
	return do[model.Event](ctx, c, call{
		op:     "UpdateEvent",
		method: http.MethodPut,
		path:   eventsPath(programID) + "/" + seg(eventID),
		route:  "/programs/{id}/events/{eventID}",
		body:   e,
		validate: func() error {
			if err := requireIDs("programID", programID, "eventID", eventID); err != nil {
				return err
			}
			return e.Validate()
		},
	})
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, programID, eventID string) (*response.Response[model.Event], error) {
	return do[model.Event](ctx, c, call{
		op:       "DeleteEvent",
		method:   http.MethodDelete,
		path:     eventsPath(programID) + "/" + seg(eventID),
		route:    "/programs/{id}/events/{eventID}",
		validate: func() error { return requireIDs("programID", programID, "eventID", eventID) },
	})
}
