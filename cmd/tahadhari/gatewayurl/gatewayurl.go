// Package gatewayurl resolves the gateway address used by client commands.
package gatewayurl

import (
	"os"
	"strings"
)

// EnvServer overrides the default gateway address.
const EnvServer = "TAHADHARI_SERVER"

// Default is the address of a gateway started with "tahadhari serve".
const Default = "http://localhost:8080"

// Resolve returns the flag value when set, then $TAHADHARI_SERVER, then Default.
func Resolve(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return Default
}
