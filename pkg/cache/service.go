package cache

import (
	"strings"
	"time"
)

// CacheService is the process-local cache used for sessions and hot documents.
type CacheService interface {
	// Get returns the value and true when the key is present and not expired.
	Get(key string) (interface{}, bool)

	// Set stores value for duration. A zero duration uses the cache default.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	Flush()
}

// Key namespaces
const (
	PrefixCart     = "cart"
	PrefixProduct  = "product"
	PrefixSettings = "settings"
)

// Key joins a namespace and its parts with ':'.
func Key(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}
