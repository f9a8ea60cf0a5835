// Package pipeline applies the dashboard's filter selection to the
// cleaned sales records and computes the summary figures and grouped
// revenue series the dashboard displays.
package pipeline
