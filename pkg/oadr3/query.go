package oadr3

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

func pageQuery(q url.Values, p validation.SearchParams) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if p.Skip != nil {
		q.Set("skip", strconv.Itoa(*p.Skip))
	}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	return q
}

// setNonEmpty adds key only when v has content.
func setNonEmpty(q url.Values, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q.Set(key, v)
	}
}

func seg(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

func requireIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validation.RequireID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
