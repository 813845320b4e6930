// Package docs wraps the Google Docs API for creating, reading, and
// appending to documents.
package docs
