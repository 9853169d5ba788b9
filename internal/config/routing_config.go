package config

import "time"

const (
	// Decision/resolution narrative bounds, enforced before any write.
	MinDecisionTextLen = 10
	MaxDecisionTextLen = 1000

	// Dashboard pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Actor tokens
	TokenTTL = 72 * time.Hour

	// Callers should bound total transaction time; exceeding it is treated
	// as a persistence failure.
	RouteTimeout = 10 * time.Second
)
