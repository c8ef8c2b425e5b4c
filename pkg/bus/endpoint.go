// Copyright 2026 RGB Protocol
//
// Endpoint URI handling

package bus

import "strings"

// parseEndpoint strips a "tcp://" scheme prefix if present, so the
// runtime's config can use familiar ZeroMQ-style endpoint URIs
// while the
// transport underneath is a plain net.Conn.
func parseEndpoint(endpoint string) string {
	return strings.TrimPrefix(endpoint, "tcp://")
}
