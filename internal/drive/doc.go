// Package drive wraps the Google Drive API for folder listing, search, and
// Workspace document export.
package drive
