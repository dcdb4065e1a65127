// Package analytics derives academic metrics from raw grade and attendance records.
//
// Every function is pure: it reads the records it is given and never touches storage, so callers
// recompute on each request and always reflect the latest data. Empty inputs yield neutral values
// (0.0 or empty slices) rather than errors.
package analytics
