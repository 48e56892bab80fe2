package oadr3

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
)

// SearchPrograms lists programs, optionally filtered by target.
func (c *Client) SearchPrograms(ctx context.Context, q model.ProgramQuery) (*response.Response[[]model.Program], error) {
	query := url.Values{}
	for _, t := range q.Targets {
		query.Add("targets", string(t))
	}
	return do[[]model.Program](ctx, c, call{
		op:       "SearchPrograms",
		method:   http.MethodGet,
		path:     "/programs",
		route:    "/programs",
		query:    pageQuery(query, q.SearchParams),
		validate: q.Validate,
	})
}

// CreateProgram creates p on the VTN.
func (c *Client) CreateProgram(ctx context.Context, p model.Program) (*response.Response[model.Program], error) {
	return do[model.Program](ctx, c, call{
		op:       "CreateProgram",
		method:   http.MethodPost,
		path:     "/programs",
		route:    "/programs",
		body:     p,
		validate: p.Validate,
	})
}

// GetProgram fetches one program.
func (c *Client) GetProgram(ctx context.Context, id string) (*response.Response[model.Program], error) {
	return do[model.Program](ctx, c, call{
		op:       "GetProgram",
		method:   http.MethodGet,
		path:     "/programs/" + seg(id),
		route:    "/programs/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}

// UpdateProgram replaces the program stored under id.
func (c *Client) UpdateProgram(ctx context.Context, id string, p model.Program) (*response.Response[model.Program], error) {
	return do[model.Program](ctx, c, call{
		op:     "UpdateProgram",
		method: http.MethodPut,
		path:   "/programs/" + seg(id),
		route:  "/programs/{id}",
		body:   p,
		validate: func() error {
			if err := requireIDs("id", id); err != nil {
				return err
			}
			return p.Validate()
		},
	})
}

// DeleteProgram removes a program. The VTN may answer with the deleted
// program or with no content.
func (c *Client) DeleteProgram(ctx context.Context, id string) (*response.Response[model.Program], error) {
	return do[model.Program](ctx, c, call{
		op:       "DeleteProgram",
		method:   http.MethodDelete,
		path:     "/programs/" + seg(id),
		route:    "/programs/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}
