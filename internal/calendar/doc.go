// Package calendar wraps the Google Calendar API for listing and creating
// events on the primary calendar.
package calendar
