// Package reconcile refreshes 30-day change metrics from external FX-rate
// providers and feeds the resulting partial updates into the store's merge
// path. External fetches never hold the store's write section: the batch is
// built first, then merged atomically by the caller.
package reconcile
