package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const keyPrefix = "posters"

// Key generates a deterministic cache key for an endpoint and its query.
// Format: posters:endpoint:param1=val1:param2=val2
//
// Example:
//
//	posters:getWallpapers:page=3
func Key(endpoint string, params url.Values) string {
	parts := []string{keyPrefix}

	endpoint = strings.Trim(endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, params.Get(k)))
		}
	}

	return strings.Join(parts, ":")
}
