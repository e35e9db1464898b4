// Package fakeapi is an in-memory stand-in for the flashcard REST backend.
//
// It serves the same routes and response shapes as the real service so the
// client packages can be tested end to end over HTTP: bearer tokens are real
// HS256 JWTs, passwords are bcrypt hashes, ids are UUIDs, search pages carry
// opaque cursors, and generation produces drafts from a fixed vocabulary.
// Each account's data is isolated. Tests can seed data, inject failures, and
// count requests per route.
package fakeapi
