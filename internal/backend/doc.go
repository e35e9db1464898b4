// Package backend is the typed HTTP client for the flashcard REST backend.
//
// Every endpoint has one method that takes a context and typed parameters and
// returns the decoded response body. Authenticated calls carry the session's
// bearer token through an oauth2 transport; login and register use a plain
// transport. Non-2xx responses surface as *APIError carrying the backend's
// "detail" message. The client never retries; callers decide what to do with
// a failure.
package backend
