// Package slides_tools provides MCP tools for Google Slides.
//
// Read tools (always registered):
//   - slides_get_presentation: slides and their text content
//   - slides_search: find presentations in Drive
//   - slides_export: export as pdf, pptx, or txt
//
// Write tools (disabled in read-only mode):
//   - slides_create_presentation, slides_add_slide, slides_add_text,
//     slides_delete_slide
package slides_tools
