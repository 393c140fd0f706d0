// Package store keeps a SQLite history of evaluation runs.
//
// Each run gets a UUID and one row per scored slice and method, so results
// from different detector settings or datasets can be compared later
// without keeping every CSV file around.
package store
