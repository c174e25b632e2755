// Package client assembles the HexSocial CLI from its configuration.
//
// # Overview
//
// New opens the token tiers (the durable one on SQLite or Redis, the
// session one in memory), builds the session manager, the API client with
// its refresh and circuit-breaker transports, the application services and
// the interactive App. Close releases whatever New opened.
//
// # Metrics
//
// When Config.MetricsAddr is set, Serve exposes the default Prometheus
// registry (token refresh outcomes, breaker state) on /metrics until its
// context is done.
package client
