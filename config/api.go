package config

import (
	"os"
	"strings"
)

// GetAuthSkipperPaths returns /api paths exempt from auth. The inventory
// webhook is exempt by default: change events arrive from the storefront,
// not from an operator with API credentials.
func GetAuthSkipperPaths() []string {
	if v := os.Getenv("AUTH_SKIP_PATHS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{"/api/inventory/webhook"}
}
