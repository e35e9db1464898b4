// Package preflight provides readiness checks for the local directories and
// the backend the flashcard CLI depends on.
//
// The CLI "flashcard status" command renders the results. Checks never
// return errors; failures are reported through Result.Detail so every check
// runs even when an earlier one fails.
package preflight
