package gmail

import (
	gmail "google.golang.org/api/gmail/v1"
)

// Profile describes the authenticated Gmail account.
type Profile struct {
	EmailAddress  string `json:"emailAddress"`
	MessagesTotal int64  `json:"messagesTotal"`
	ThreadsTotal  int64  `json:"threadsTotal"`
}

// Label is a Gmail label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FilterInput holds the criteria and actions of a new server-side filter.
// All criteria fields are optional; at least one should be set.
type FilterInput struct {
	From    string
	To      string
	Subject string
	Query   string

	AddLabelIDs    []string
	RemoveLabelIDs []string
}

// Filter is a server-side Gmail filter.
type Filter struct {
	ID             string   `json:"id"`
	From           string   `json:"from,omitempty"`
	To             string   `json:"to,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Query          string   `json:"query,omitempty"`
	AddLabelIDs    []string `json:"addLabelIds,omitempty"`
	RemoveLabelIDs []string `json:"removeLabelIds,omitempty"`
}

func toLabel(l *gmail.Label) Label {
	return Label{
		ID:   l.Id,
		Name: l.Name,
		Type: l.Type,
	}
}

func toFilter(f *gmail.Filter) Filter {
	result := Filter{ID: f.Id}
	if f.Criteria != nil {
		result.From = f.Criteria.From
		result.To = f.Criteria.To
		result.Subject = f.Criteria.Subject
		result.Query = f.Criteria.Query
	}
	if f.Action != nil {
		result.AddLabelIDs = f.Action.AddLabelIds
		result.RemoveLabelIDs = f.Action.RemoveLabelIds
	}
	return result
}
