// Package domain contains the core entities of the rewriter: the records being
// rewritten, their summaries, the per-record outcome of a rewrite, and the
// persisted history of batch runs. It has no dependencies on storage or
// generation infrastructure.
package domain
