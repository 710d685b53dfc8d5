// Package rewrite is the batch core: it drives each record through the
// title, description and summary stages, and persists the results only when
// all three succeed.
//
// A Pipeline runs the stages for one record as a forward-only state machine.
// The Processor turns a pipeline execution into a domain.Outcome. The
// Orchestrator loads a snapshot of records, hands them to a bounded worker
// pool, drains completions as they arrive and writes successful outcomes
// through a Gateway. Progress is published as events.
package rewrite
