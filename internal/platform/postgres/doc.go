// Package postgres provides PostgreSQL implementations of the store
// interfaces for records, summaries and rewrite runs, along with the
// embedded goose migrations that create their tables.
package postgres
