// Package gmail wraps the Gmail API for account, label, filter, and message
// operations.
package gmail
