package secrets

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/pkg/config"
	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	pkgsecrets "github.com/clean-energy-tools/openadr-3-client/pkg/secrets"
)

// countingProvider wraps a StaticProvider and counts GetSecret calls.
type countingProvider struct {
	pkgsecrets.StaticProvider
	gets atomic.Int32
}

func (p *countingProvider) GetSecret(ctx context.Context, name string) (map[string]string, error) {
	p.gets.Add(1)
	return p.StaticProvider.GetSecret(ctx, name)
}

func newTestResolver(p pkgsecrets.Provider) *Resolver {
	return NewResolver(zap.NewNop(), "Dev", p, pkgsecrets.NewCache[config.Config](time.Hour))
}

func TestResolver_ResolveCaches(t *testing.T) {
	p := &countingProvider{StaticProvider: pkgsecrets.StaticProvider{
		"dev/acme/oadr3": {
			"base_url":      "https://vtn.acme.test/",
			"client_id":     "ven-1",
			"client_secret": "s3cret",
		},
	}}
	r := newTestResolver(p)

	cfg, err := r.Resolve(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "https://vtn.acme.test", cfg.BaseURL)

	_, err = r.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.gets.Load())

	r.Bust("acme")
	_, err = r.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.gets.Load())
}

func TestResolver_ResolveErrors(t *testing.T) {
	r := newTestResolver(pkgsecrets.StaticProvider{
		"dev/partial/oadr3": {"base_url": "https://x"},
	})

	_, err := r.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindConfiguration))

	_, err = r.Resolve(context.Background(), "partial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestResolver_DiscoverVTNs(t *testing.T) {
	r := newTestResolver(pkgsecrets.StaticProvider{
		"dev/acme/oadr3":     {},
		"dev/globex/oadr3":   {},
		"dev/acme/other":     {},
		"dev/a/b/oadr3":      {},
		"prod/initech/oadr3": {},
	})

	vtns, err := r.DiscoverVTNs(context.Background())
	require.NoError(t, err)
	sort.Strings(vtns)
	assert.Equal(t, []string{"acme", "globex"}, vtns)
}

func TestResolver_SecretName(t *testing.T) {
	r := newTestResolver(pkgsecrets.StaticProvider{})
	assert.Equal(t, "dev/acme/oadr3", r.SecretName("ACME"))
}
