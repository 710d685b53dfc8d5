// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the rewrite core, so the batch logic stays independent of specific
// database technologies or persistence details.
//
// Implementations offer WithTx so callers can compose several store
// operations inside a single transaction via RunInTransaction.
package store
