// Package task runs units of work on a fixed number of worker goroutines.
//
// Producers put tasks on a TaskQueue and close it; a WorkerPool drains the
// queue with a bounded set of workers and reports one Completion per task, in
// the order the tasks finish.
package task
