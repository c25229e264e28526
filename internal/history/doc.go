// Package history implements the per-currency score time series used to
// derive rolling change metrics.
//
// Lookback is calendar-based: "30 days before 2024-03-01" is 2024-01-31, not
// 30 trading days. When history does not reach back far enough the earliest
// point stands in as the base, so young series report change from inception.
package history
