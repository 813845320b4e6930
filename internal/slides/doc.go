// Package slides wraps the Google Slides API for presentation and slide
// management.
package slides
