// Package events provides types and interfaces for the run notification flow.
//
// The batch orchestrator emits one event per finished record and one when the
// run completes. Handlers (the stdout notice writer, metrics, run history) are
// registered on an emitter and never know about each other.
//
// The primary components are:
// - Event: a record or run level occurrence with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
