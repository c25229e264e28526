// Package server exposes the ratings dataset over HTTP.
//
// Reads return point-in-time snapshots, writes are shared-secret admin
// merges, and two push transports (server-sent events and websocket)
// broadcast change notifications that carry no payload. The sync endpoint
// triggers an on-demand reconciliation pass against the rate providers.
package server
