// Package review drives the generate, review, and approve loop for draft
// cards.
//
// A Workflow holds the client-side review state for one view: the status
// filter, the pending working set, and the ids selected for bulk action.
// Drafts that this workflow approved or rejected are remembered so that a
// listing fetched before the change cannot bring them back into the pending
// set. Changing the filter always clears the selection.
package review
