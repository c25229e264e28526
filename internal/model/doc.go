// Package model defines the shared data types for the ratings dataset.
//
// Records are keyed by ISO currency code and carry a composite 0-100 score,
// a letter grade, rolling change metrics, and named driver sub-scores.
// Dates are calendar dates in ISO form (YYYY-MM-DD); scores and changes are
// rounded to one decimal at the point they are derived.
package model
