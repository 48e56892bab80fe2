package oadr3

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

// SearchVENs lists VENs, optionally filtered by name.
func (c *Client) SearchVENs(ctx context.Context, q model.VENQuery) (*response.Response[[]model.VEN], error) {
	query := url.Values{}
	setNonEmpty(query, "venName", q.VENName)
	return do[[]model.VEN](ctx, c, call{
		op:       "SearchVENs",
		method:   http.MethodGet,
		path:     "/vens",
		route:    "/vens",
		query:    pageQuery(query, q.SearchParams),
		validate: q.Validate,
	})
}

func (c *Client) CreateVEN(ctx context.Context, v model.VEN) (*response.Response[model.VEN], error) {
	return do[model.VEN](ctx, c, call{
		op:       "CreateVEN",
		method:   http.MethodPost,
		path:     "/vens",
		route:    "/vens",
		body:     v,
		validate: v.Validate,
	})
}

func (c *Client) GetVEN(ctx context.Context, id string) (*response.Response[model.VEN], error) {
	return do[model.VEN](ctx, c, call{
		op:       "GetVEN",
		method:   http.MethodGet,
		path:     "/vens/" + seg(id),
		route:    "/vens/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}

func (c *Client) UpdateVEN(ctx context.Context, id string, v model.VEN) (*response.Response[model.VEN], error) {
	return do[model.VEN](ctx, c, call{
		op:     "UpdateVEN",
		method: http.MethodPut,
		path:   "/vens/" + seg(id),
		route:  "/vens/{id}",
		body:   v,
		validate: func() error {
			if err := requireIDs("id", id); err != nil {
				return err
			}
			return v.Validate()
		},
	})
}

func (c *Client) DeleteVEN(ctx context.Context, id string) (*response.Response[model.VEN], error) {
	return do[model.VEN](ctx, c, call{
		op:       "DeleteVEN",
		method:   http.MethodDelete,
		path:     "/vens/" + seg(id),
		route:    "/vens/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}

// ─── Resources ────────────────────────────────────────────────────────────────

func resourcesPath(venID string) string {
	return "/vens/" + seg(venID) + "/resources"
}

// SearchResources lists the resources registered under a VEN.
func (c *Client) SearchResources(ctx context.Context, venID string, p validation.SearchParams) (*response.Response[[]model.Resource], error) {
	return do[[]model.Resource](ctx, c, call{
		op:     "SearchResources",
		method: http.MethodGet,
		path:   resourcesPath(venID),
		route:  "/vens/{venID}/resources",
		query:  pageQuery(nil, p),
		validate: func() error {
			if err := requireIDs("venID", venID); err != nil {
				return err
			}
			return p.Validate()
		},
	})
}

func (c *Client) CreateResource(ctx context.Context, venID string, r model.Resource) (*response.Response[model.Resource], error) {
	return do[model.Resource](ctx, c, call{
		op:     "CreateResource",
		method: http.MethodPost,
		path:   resourcesPath(venID),
		route:  "/vens/{venID}/resources",
		body:   r,
		validate: func() error {
			if err := requireIDs("venID", venID); err != nil {
				return err
			}
			return r.Validate()
		},
	})
}

func (c *Client) GetResource(ctx context.Context, venID, resourceID string) (*response.Response[model.Resource], error) {
	return do[model.Resource](ctx, c, call{
		op:       "GetResource",
		method:   http.MethodGet,
		path:     resourcesPath(venID) + "/" + seg(resourceID),
		route:    "/vens/{venID}/resources/{id}",
		validate: func() error { return requireIDs("venID", venID, "resourceID", resourceID) },
	})
}

func (c *Client) UpdateResource(ctx context.Context, venID, resourceID string, r model.Resource) (*response.Response[model.Resource], error) {
	return do[model.Resource](ctx, c, call{
		op:     "UpdateResource",
		method: http.MethodPut,
		path:   resourcesPath(venID) + "/" + seg(resourceID),
		route:  "/vens/{venID}/resources/{id}",
		body:   r,
		validate: func() error {
			if err := requireIDs("venID", venID, "resourceID", resourceID); err != nil {
				return err
			}
			return r.Validate()
		},
	})
}

func (c *Client) DeleteResource(ctx context.Context, venID, resourceID string) (*response.Response[model.Resource], error) {
	return do[model.Resource](ctx, c, call{
		op:       "DeleteResource",
		method:   http.MethodDelete,
		path:     resourcesPath(venID) + "/" + seg(resourceID),
		route:    "/vens/{venID}/resources/{id}",
		validate: func() error { return requireIDs("venID", venID, "resourceID", resourceID) },
	})
}
