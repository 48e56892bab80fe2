package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/pkg/config"
	pkgsecrets "github.com/clean-energy-tools/openadr-3-client/pkg/secrets"
)

const secretSuffix = "oadr3"

// Resolver resolves per-VTN client configuration from a secrets provider,
// caching results locally to reduce API calls.
//
// Secret naming convention: {env}/{vtn}/oadr3
type Resolver struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[config.Config]
}

// NewResolver constructs a resolver for one deployment environment.
func NewResolver(logger *zap.Logger, env string, provider pkgsecrets.Provider, cache *pkgsecrets.Cache[config.Config]) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

// SecretName builds the secret key for a VTN.
func (r *Resolver) SecretName(vtn string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", r.env, vtn, secretSuffix))
}

// Resolve fetches or returns the cached Config for vtn.
func (r *Resolver) Resolve(ctx context.Context, vtn string) (config.Config, error) {
	key := strings.ToLower(vtn)
	if cfg, ok := r.cache.Get(key); ok {
		return cfg, nil
	}

	name := r.SecretName(vtn)
	cfg, err := config.FromSecret(ctx, r.provider, name)
	if err != nil {
		r.logger.Warn("oadr3.secret_resolve_failed",
			zap.String("key", name),
			zap.Error(err))
		return config.Config{}, fmt.Errorf("resolve vtn config for %q: %w", vtn, err)
	}

	r.cache.Put(key, cfg)
	r.logger.Info("oadr3.vtn_config_resolved",
		zap.String("vtn", vtn),
		zap.String("base_url", cfg.BaseURL),
		zap.String("client_id", cfg.ClientID))
	return cfg, nil
}

// Bust drops the cached config for vtn, e.g. after credentials are rotated.
func (r *Resolver) Bust(vtn string) {
	r.cache.Bust(strings.ToLower(vtn))
}

// DiscoverVTNs lists the VTN names that have secrets configured for this environment.
func (r *Resolver) DiscoverVTNs(ctx context.Context) ([]string, error) {
	prefix := strings.ToLower(r.env + "/")
	suffix := "/" + secretSuffix

	names, err := r.provider.ListSecrets(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("discover vtns: %w", err)
	}

	var vtns []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, prefix) || !strings.HasSuffix(lower, suffix) {
			continue
		}
		trimmed := strings.TrimSuffix(strings.TrimPrefix(lower, prefix), suffix)
		if trimmed != "" && !strings.Contains(trimmed, "/") {
			vtns = append(vtns, trimmed)
		}
	}

	r.logger.Info("oadr3.vtns_discovered",
		zap.Int("count", len(vtns)),
		zap.Strings("vtns", vtns))
	return vtns, nil
}
