package ratelimit

import (
	"strings"
)

// APIPrefix is the alternate mount point of every route.
const APIPrefix = "/api"

var unlimited = &EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration, or nil when
// none applies. Paths under /api match the same entries as their unprefixed form, and entries
// ending with "/" match by prefix.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	path = CanonicalPath(path)

	if method == "GET" && (path == "/health" || path == "/resume/health") {
		return unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

// CanonicalPath strips the /api mount prefix so both mounts share one bucket.
func CanonicalPath(path string) string {
	if rest, ok := strings.CutPrefix(path, APIPrefix); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return path
}
