// Package api is the client-side service layer the commands talk to.
//
// Service pairs every backend read with a query cache key and every mutation
// with the key families it affects, so a deck deleted here is gone from the
// next deck listing without a manual refresh. It also holds the client-side
// checks that run before any network I/O (request validation, upload quota
// checks, the storage disconnect guard) and the list filters used by the
// views.
//
// Invalidation map:
//
//	decks:     deck create/update/delete, card membership changes
//	cards:     card create/update/delete, draft approve
//	books:     upload/update/delete, chapter edits
//	bookProgress: progress updates, generation
//	drafts:    generation, draft edit/approve/reject/purge
//	storage:   upload/delete, telegram configure, disconnect
//	searchCards: anything that changes card content
package api
