// Package report renders collected users, per-family summaries and
// statistics read back from a run's output directory.
package report
