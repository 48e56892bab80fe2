// Package secrets reads VTN client credentials from an external secret store.
package secrets

import "context"

// Provider defines a generic secrets manager interface.
// Secrets are flat JSON objects decoded into a key-value map.
type Provider interface {
	// GetSecret retrieves a secret by name.
	GetSecret(ctx context.Context, name string) (map[string]string, error)

	// ListSecrets returns the names of all secrets whose name matches the given prefix.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}

// StaticProvider serves secrets from memory. Useful for local runs and tests.
type StaticProvider map[string]map[string]string

// GetSecret implements Provider.
func (p StaticProvider) GetSecret(_ context.Context, name string) (map[string]string, error) {
	s, ok := p[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// ListSecrets implements Provider.
func (p StaticProvider) ListSecrets(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range p {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			names = append(names, name)
		}
	}
	return names, nil
}

// NotFoundError reports a missing secret.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "secret not found: " + e.Name
}
