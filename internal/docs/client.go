package docs

import (
	"context"
	"fmt"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"
)

// Client wraps the Google Docs service.
type Client struct {
	svc *docs.Service
}

// NewClient creates a Docs client authenticated through the given token
// source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := docs.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Docs service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Create creates a document, optionally seeding it with initial text.
func (c *Client) Create(title, bodyText string) (*Document, error) {
	doc, err := c.svc.Documents.Create(&docs.Document{Title: title}).Do()
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	if bodyText != "" {
		req := &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: 1},
					Text:     bodyText,
				},
			}},
		}
		if _, err := c.svc.Documents.BatchUpdate(doc.DocumentId, req).Do(); err != nil {
			return nil, fmt.Errorf("inserting initial text into %s: %w", doc.DocumentId, err)
		}
	}

	return &Document{
		ID:    doc.DocumentId,
		Title: doc.Title,
		URL:   documentURL(doc.DocumentId),
	}, nil
}

// Get returns a document's title and its plain-text content, flattened from
// the paragraph structure.
func (c *Client) Get(documentID string) (*Document, error) {
	doc, err := c.svc.Documents.Get(documentID).Do()
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", documentID, err)
	}
	return &Document{
		ID:    doc.DocumentId,
		Title: doc.Title,
		Text:  extractText(doc),
		URL:   documentURL(doc.DocumentId),
	}, nil
}

// Append inserts text at the end of the document body.
func (c *Client) Append(documentID, text string) error {
	doc, err := c.svc.Documents.Get(documentID).Do()
	if err != nil {
		return fmt.Errorf("getting document %s: %w", documentID, err)
	}

	endIndex := int64(1)
	if doc.Body != nil && len(doc.Body.Content) > 0 {
		// The last structural element's end index points past the final
		// newline, which the API refuses to insert at.
		endIndex = doc.Body.Content[len(doc.Body.Content)-1].EndIndex - 1
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: endIndex},
				Text:     text,
			},
		}},
	}
	if _, err := c.svc.Documents.BatchUpdate(documentID, req).Do(); err != nil {
		return fmt.Errorf("appending to document %s: %w", documentID, err)
	}
	return nil
}

// extractText flattens a document body into plain text.
func extractText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}
	var text string
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, e := range element.Paragraph.Elements {
			if e.TextRun != nil {
				text += e.TextRun.Content
			}
		}
	}
	return text
}

func documentURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", id)
}
