// Package api exposes rewrite runs over HTTP: starting a run, reading its
// report, health and metrics. Request validation and response formatting
// live in the shared subpackage.
package api
