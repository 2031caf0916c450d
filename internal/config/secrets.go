// internal/config/secrets.go
//
// Vault reference resolution.
//
// Context
// -------
// Config values of the form `vault:<mount>/<path>#<key>` are swapped for the
// secret they point at.  Only fields that can plausibly hold a credential
// are scanned: the database DSN and password, the form-token secret, the
// relay URL, and relay header values.
//
// The resolver is an interface so boot code passes *vault.Client and tests
// pass a map.

package config

import (
	"context"
	"fmt"

	"github.com/yanizio/landing/internal/vault"
)

// SecretResolver turns a vault reference into its plain value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// HasSecretRefs reports whether any scanned field holds a vault reference,
// letting boot code skip the Vault client when nothing needs it.
func HasSecretRefs(c *Config) bool {
	for _, p := range secretFields(c) {
		if vault.IsRef(*p) {
			return true
		}
	}
	for _, v := range c.Relay.Headers {
		if vault.IsRef(v) {
			return true
		}
	}
	return false
}

// ResolveSecrets rewrites every vault reference in c in place, then
// re-validates and republishes the config.
func ResolveSecrets(ctx context.Context, c *Config, r SecretResolver) error {
	for _, p := range secretFields(c) {
		val, err := resolve(ctx, r, *p)
		if err != nil {
			return err
		}
		*p = val
	}
	for k, v := range c.Relay.Headers {
		val, err := resolve(ctx, r, v)
		if err != nil {
			return err
		}
		c.Relay.Headers[k] = val
	}
	if err := validateStruct(c); err != nil {
		return err
	}
	current.Store(c)
	return nil
}

func resolve(ctx context.Context, r SecretResolver, s string) (string, error) {
	if !vault.IsRef(s) {
		return s, nil
	}
	val, err := r.Resolve(ctx, s)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", s, err)
	}
	return val, nil
}

// secretFields lists pointers to the scanned string fields.
func secretFields(c *Config) []*string {
	return []*string{
		&c.Database.DSN,
		&c.Database.Password,
		&c.Security.FormSecret,
		&c.Relay.URL,
	}
}
