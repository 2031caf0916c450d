// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` right after unmarshalling.  Any tag
// failure aborts startup so the binary never runs half-configured.  Rules
// that span fields (relay actions need a relay URL) live here rather than in
// tags.

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Relay.RetryWaitMax > 0 && c.Relay.RetryWaitMin > c.Relay.RetryWaitMax {
		return fmt.Errorf("relay.retry_wait_min (%s) greater than relay.retry_wait_max (%s)",
			c.Relay.RetryWaitMin, c.Relay.RetryWaitMax)
	}
	for _, a := range c.Actions {
		if a == "relay" && c.Relay.URL == "" {
			return fmt.Errorf("action %q requires relay.url", a)
		}
	}
	return nil
}
