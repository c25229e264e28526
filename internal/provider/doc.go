// Package provider implements adapters for external exchange-rate sources.
//
// Providers are treated as unreliable black boxes with a documented response
// shape: daily USD-based rates keyed by observation date. The primary source
// is exchangerate.host (one request covers all codes); the fallback is
// Frankfurter (ECB daily), which requires chunked requests. Adapters are
// composed into an ordered Chain that stops at the first provider returning
// at least two observation dates.
package provider
