// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Merge batch and record throughput
//   - Change-notification publish rate
//   - Rate-provider failure counts by provider
//   - Open push-stream gauge by transport
package metrics
