package oadr3

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
)

// SearchSubscriptions lists subscriptions, optionally filtered by program and client.
func (c *Client) SearchSubscriptions(ctx context.Context, q model.SubscriptionQuery) (*response.Response[[]model.Subscription], error) {
	query := url.Values{}
	setNonEmpty(query, "programID", q.ProgramID)
	setNonEmpty(query, "clientName", q.ClientName)
	return do[[]model.Subscription](ctx, c, call{
		op:       "SearchSubscriptions",
		method:   http.MethodGet,
		path:     "/subscriptions",
		route:    "/subscriptions",
		query:    pageQuery(query, q.SearchParams),
		validate: q.Validate,
	})
}

// CreateSubscription registers callbacks for object operations on the VTN.
func (c *Client) CreateSubscription(ctx context.Context, s model.Subscription) (*response.Response[model.Subscription], error) {
	return do[model.Subscription](ctx, c, call{
		op:       "CreateSubscription",
		method:   http.MethodPost,
		path:     "/subscriptions",
		route:    "/subscriptions",
		body:     s,
		validate: s.Validate,
	})
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*response.Response[model.Subscription], error) {
	return do[model.Subscription](ctx, c, call{
		op:       "GetSubscription",
		method:   http.MethodGet,
		path:     "/subscriptions/" + seg(id),
		route:    "/subscriptions/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, s model.Subscription) (*response.Response[model.Subscription], error) {
	return do[model.Subscription](ctx, c, call{
		op:     "UpdateSubscription",
		method: http.MethodPut,
		path:   "/subscriptions/" + seg(id),
		route:  "/subscriptions/{id}",
		body:   s,
		validate: func() error {
			if err := requireIDs("id", id); err != nil {
				return err
			}
			return s.Validate()
		},
	})
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) (*response.Response[model.Subscription], error) {
	return do[model.Subscription](ctx, c, call{
		op:       "DeleteSubscription",
		method:   http.MethodDelete,
		path:     "/subscriptions/" + seg(id),
		route:    "/subscriptions/{id}",
		validate: func() error { return requireIDs("id", id) },
	})
}
