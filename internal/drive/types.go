package drive

import (
	drive "google.golang.org/api/drive/v3"
)

// Workspace document MIME types.
const (
	MIMEFolder       = "application/vnd.google-apps.folder"
	MIMEDocument     = "application/vnd.google-apps.document"
	MIMESpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MIMEPresentation = "application/vnd.google-apps.presentation"
)

// File is a simplified Drive file entry.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

func toFiles(files []*drive.File) []File {
	var result []File
	for _, f := range files {
		result = append(result, File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		})
	}
	return result
}
