package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for the health probe, which never counts against
// a limit.
var unlimited = EndpointConfig{Path: "/health", Method: http.MethodGet}

// MatchEndpoint picks the endpoint rule for a request, or nil when only
// the default limit applies. An exact path match wins. Otherwise the
// longest rule path ending in "/" that prefixes the request path is used,
// so "/api/proposals/" covers "/api/proposals/{id}".
func MatchEndpoint(path, method string, rules []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		rule := unlimited
		return &rule
	}

	var prefix *EndpointConfig
	for i := range rules {
		rule := &rules[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		isPrefix := strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path)
		if isPrefix && (prefix == nil || len(rule.Path) > len(prefix.Path)) {
			prefix = rule
		}
	}
	return prefix
}
