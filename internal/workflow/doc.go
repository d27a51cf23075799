// Package workflow expands a workflow template into concrete client tasks.
//
// A run resolves each step's due date, title and assignee, then creates
// the tasks one at a time in step order so that a step's parent task is
// always persisted before any step that depends on it. Runs are not
// idempotent: running the same template twice creates two sets of tasks.
package workflow
