// Package pg wires PostgreSQL connectivity: pool construction with
// retry, goose migrations from an embedded filesystem, and helpers for
// classifying the driver errors the storage layer cares about.
package pg
