package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"
)

// Client wraps the Gmail service.
type Client struct {
	svc *gmail.Service
}

// NewClient creates a Gmail client authenticated through the given token
// source. The source is consulted on every request, so the client does not
// need to be rebuilt after re-authorization.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Gmail service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Profile returns the authenticated account's profile.
func (c *Client) Profile() (*Profile, error) {
	p, err := c.svc.Users.GetProfile("me").Do()
	if err != nil {
		return nil, fmt.Errorf("getting Gmail profile: %w", err)
	}
	return &Profile{
		EmailAddress:  p.EmailAddress,
		MessagesTotal: p.MessagesTotal,
		ThreadsTotal:  p.ThreadsTotal,
	}, nil
}

// ListLabels lists the user-created labels.
func (c *Client) ListLabels() ([]Label, error) {
	res, err := c.svc.Users.Labels.List("me").Do()
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}

	var labels []Label
	for _, l := range res.Labels {
		if l.Type != "user" {
			continue
		}
		labels = append(labels, toLabel(l))
	}
	return labels, nil
}

// CreateLabel creates a new user label visible in both the label and message
// lists.
func (c *Client) CreateLabel(name string) (*Label, error) {
	l := &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}
	created, err := c.svc.Users.Labels.Create("me", l).Do()
	if err != nil {
		return nil, fmt.Errorf("creating label: %w", err)
	}
	result := toLabel(created)
	return &result, nil
}

// SendEmail sends a plain-text email and returns the message ID.
func (c *Client) SendEmail(to, subject, body string) (string, error) {
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(buildPlainTextMessage(to, subject, body)),
	}
	sent, err := c.svc.Users.Messages.Send("me", msg).Do()
	if err != nil {
		return "", fmt.Errorf("sending email: %w", err)
	}
	return sent.Id, nil
}

// CreateFilter creates a server-side filter from the given criteria and
// actions.
func (c *Client) CreateFilter(input FilterInput) (*Filter, error) {
	f := &gmail.Filter{
		Criteria: &gmail.FilterCriteria{
			From:    input.From,
			To:      input.To,
			Subject: input.Subject,
			Query:   input.Query,
		},
		Action: &gmail.FilterAction{
			AddLabelIds:    input.AddLabelIDs,
			RemoveLabelIds: input.RemoveLabelIDs,
		},
	}
	created, err := c.svc.Users.Settings.Filters.Create("me", f).Do()
	if err != nil {
		return nil, fmt.Errorf("creating filter: %w", err)
	}
	result := toFilter(created)
	return &result, nil
}

// ListFilters lists the account's server-side filters.
func (c *Client) ListFilters() ([]Filter, error) {
	res, err := c.svc.Users.Settings.Filters.List("me").Do()
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}

	var filters []Filter
	for _, f := range res.Filter {
		filters = append(filters, toFilter(f))
	}
	return filters, nil
}

// CleanSpam moves every message in the spam folder to trash and returns how
// many were cleaned.
func (c *Client) CleanSpam() (int, error) {
	ids, err := c.listMessageIDs("in:spam")
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	cleaned := 0
	for _, id := range ids {
		if _, err := c.svc.Users.Messages.Trash("me", id).Do(); err != nil {
			return cleaned, fmt.Errorf("trashing message %s: %w", id, err)
		}
		cleaned++
	}
	return cleaned, nil
}

// ApplyLabelByQuery adds a label to every message matching the search query
// and returns how many messages were modified.
func (c *Client) ApplyLabelByQuery(query, labelID string) (int, error) {
	ids, err := c.listMessageIDs(query)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	req := &gmail.BatchModifyMessagesRequest{
		Ids:         ids,
		AddLabelIds: []string{labelID},
	}
	if err := c.svc.Users.Messages.BatchModify("me", req).Do(); err != nil {
		return 0, fmt.Errorf("applying label to %d messages: %w", len(ids), err)
	}
	return len(ids), nil
}

// listMessageIDs collects the IDs of every message matching a search query.
func (c *Client) listMessageIDs(query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := c.svc.Users.Messages.List("me").Q(query).MaxResults(messagePageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing messages for query %q: %w", query, err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			return ids, nil
		}
		pageToken = res.NextPageToken
	}
}

const messagePageSize = 500

// buildPlainTextMessage assembles a minimal UTF-8 message. Headers are kept
// unencoded so Unicode subjects stay readable in the raw form.
func buildPlainTextMessage(to, subject, body string) []byte {
	raw := fmt.Sprintf("To: %s\nSubject: %s\nContent-Type: text/plain; charset=\"utf-8\"\n\n%s",
		to, subject, body)
	return []byte(raw)
}
