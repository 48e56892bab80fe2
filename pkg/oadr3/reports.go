package oadr3

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
)

// SearchReports lists reports, optionally filtered by program and client.
func (c *Client) SearchReports(ctx context.Context, q model.ReportQuery) (*response.Response[[]model.Report], error) {
	query := url.Values{}
	setNonEmpty(query, "programID", q.ProgramID)
	setNonEmpty(query, "clientName", q.ClientName)
	return do[[]model.Report](ctx, c, call{
		op:       "SearchReports",
		method:   http.MethodGet,
		path:     "/reports",
		route:    "/reports",
		query:    pageQuery(query, q.SearchParams),
		validate: q.Validate,
	})
}

// CreateReport submits a report.
func (c *Client) CreateReport(ctx context.Context, r model.Report) (*response.Response[model.Report], error) {
	return do[model.Report](ctx, c, call{
		op:       "CreateReport",
		method:   http.MethodPost,
		path:     "/reports",
		route:    "/reports",
		body:     r,
		validate: r.Validate,
	})
}

func (c *Client) GetReport(ctx context.Context, id string) (*response.Response[model.Report], error) {
	return do[model.Report](ctx, c, call{
		op:       "GetReport",
		method:   http.MethodGet,
		path:     "/reports/" + seg(id),
		route:    "/reports/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}

func (c *Client) UpdateReport(ctx context.Context, id string, r model.Report) (*response.Response[model.Report], error) {
	return do[model.Report](ctx, c, call{
		op:     "UpdateReport",
		method: http.MethodPut,
		path:   "/reports/" + seg(id),
		route:  "/reports/{id}",
		body:   r,
		validate: func() error {
			if err := requireIDs("id", id); err != nil {
				return err
			}
			return r.Validate()
		},
	})
}

func (c *Client) DeleteReport(ctx context.Context, id string) (*response.Response[model.Report], error) {
	return do[model.Report](ctx, c, call{
		op:       "DeleteReport",
		method:   http.MethodDelete,
		path:     "/reports/" + seg(id),
		route:    "/reports/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}
