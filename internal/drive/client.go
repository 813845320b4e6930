package drive

import (
	"context"
	"fmt"
	"io"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"
)

// Client wraps the Google Drive service. Besides folder listing and search
// it carries the export surface used by the Docs, Sheets, and Slides tools,
// since Workspace documents are exported through the Drive API.
type Client struct {
	svc *drive.Service
}

// NewClient creates a Drive client authenticated through the given token
// source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListFolders lists the non-trashed folders under a parent. Use "root" for
// the drive root.
func (c *Client) ListFolders(parentID string) ([]File, error) {
	if parentID == "" {
		parentID = "root"
	}
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false",
		parentID, MIMEFolder)

	res, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name, webViewLink)").
		PageSize(folderPageSize).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing folders under %s: %w", parentID, err)
	}
	return toFiles(res.Files), nil
}

// Search runs a raw Drive query, e.g. "name contains 'report'".
func (c *Client) Search(query string) ([]File, error) {
	res, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("searching drive: %w", err)
	}
	return toFiles(res.Files), nil
}

// SearchByType finds files of one Workspace MIME type, optionally matching a
// full-text query, most recently modified first. An empty query lists recent
// files of that type.
func (c *Client) SearchByType(mimeType, fullText string, maxResults int64) ([]File, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	query := fmt.Sprintf("mimeType='%s'", mimeType)
	if fullText != "" {
		query += fmt.Sprintf(" and fullText contains '%s'", fullText)
	}

	res, err := c.svc.Files.List().
		Q(query).
		PageSize(maxResults).
		Fields("files(id, name, mimeType, modifiedTime)").
		OrderBy("modifiedTime desc").
		Do()
	if err != nil {
		return nil, fmt.Errorf("searching drive for %s: %w", mimeType, err)
	}
	return toFiles(res.Files), nil
}

// Export converts a Workspace document to the given MIME type and returns
// the raw bytes. The Drive export endpoint caps exports at 10 MB.
func (c *Client) Export(fileID, mimeType string) ([]byte, error) {
	res, err := c.svc.Files.Export(fileID, mimeType).Download()
	if err != nil {
		return nil, fmt.Errorf("exporting file %s as %s: %w", fileID, mimeType, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading export of %s: %w", fileID, err)
	}
	return data, nil
}

const folderPageSize = 100
