// Package seed loads YAML fixtures and applies them idempotently through the
// API service layer.
//
// Accounts are matched by email and events by owner plus title, so running
// the same file twice only creates what is missing.
package seed
