package ratelimit

import "time"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern ("*" segments, or prefix matching with a trailing "/")
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Ranking reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Dataset import parses and validates the whole body
		{Path: "/datasets", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Writes
		{Path: "/datasets/*", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/datasets/*/threshold", Method: "PUT", Limit: 600, Window: time.Minute, Burst: 60},
	}
}
