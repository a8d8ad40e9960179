package cache

import (
	"encoding/json"
	"time"
)

// GetJSON looks up key and decodes the stored payload. A payload that no
// longer decodes into T counts as a miss.
func GetJSON[T any](c Cache, key string) (*T, bool) {
	payload, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, false
	}
	return &out, true
}

// SetJSON stores v under key. Values that fail to serialize are silently
// not cached; the caller already has the live value.
func SetJSON(c Cache, key string, v any, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(key, payload, ttl)
}
