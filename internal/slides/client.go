package slides

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"google.golang.org/api/option"
	slides "google.golang.org/api/slides/v1"

	"golang.org/x/oauth2"
)

// Client wraps the Google Slides service.
type Client struct {
	svc *slides.Service
}

// NewClient creates a Slides client authenticated through the given token
// source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := slides.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Slides service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Create creates an empty presentation.
func (c *Client) Create(title string) (*Presentation, error) {
	pres, err := c.svc.Presentations.Create(&slides.Presentation{Title: title}).Do()
	if err != nil {
		return nil, fmt.Errorf("creating presentation: %w", err)
	}
	return &Presentation{
		ID:    pres.PresentationId,
		Title: pres.Title,
		URL:   presentationURL(pres.PresentationId),
	}, nil
}

// Get returns a presentation's title and the text content of each slide.
func (c *Client) Get(presentationID string) (*Presentation, error) {
	pres, err := c.svc.Presentations.Get(presentationID).Do()
	if err != nil {
		return nil, fmt.Errorf("getting presentation %s: %w", presentationID, err)
	}

	result := &Presentation{
		ID:    pres.PresentationId,
		Title: pres.Title,
		URL:   presentationURL(pres.PresentationId),
	}
	for _, slide := range pres.Slides {
		result.Slides = append(result.Slides, SlideInfo{
			ID:   slide.ObjectId,
			Text: slideText(slide),
		})
	}
	return result, nil
}

// AddSlide appends a slide using the named layout ("BLANK", "TITLE",
// "TITLE_AND_BODY", ...) and returns the new slide's object ID. An unknown
// layout falls back to the presentation default.
func (c *Client) AddSlide(presentationID, layout string) (string, error) {
	pres, err := c.svc.Presentations.Get(presentationID).Do()
	if err != nil {
		return "", fmt.Errorf("getting presentation %s: %w", presentationID, err)
	}

	createSlide := &slides.CreateSlideRequest{}
	for _, l := range pres.Layouts {
		if l.LayoutProperties == nil {
			continue
		}
		if strings.EqualFold(l.LayoutProperties.Name, layout) ||
			strings.EqualFold(l.LayoutProperties.DisplayName, layout) {
			createSlide.SlideLayoutReference = &slides.LayoutReference{
				LayoutId: l.ObjectId,
			}
			break
		}
	}

	res, err := c.batchUpdate(presentationID, &slides.Request{CreateSlide: createSlide})
	if err != nil {
		return "", err
	}
	if len(res.Replies) == 0 || res.Replies[0].CreateSlide == nil {
		return "", fmt.Errorf("presentation %s: no slide in create reply", presentationID)
	}
	return res.Replies[0].CreateSlide.ObjectId, nil
}

// AddTextBox places a text box on the slide at the given 0-based index.
// Coordinates and size are in points.
func (c *Client) AddTextBox(presentationID string, slideIndex int64, text string, box Box) error {
	pres, err := c.svc.Presentations.Get(presentationID).Do()
	if err != nil {
		return fmt.Errorf("getting presentation %s: %w", presentationID, err)
	}
	if slideIndex < 0 || slideIndex >= int64(len(pres.Slides)) {
		return fmt.Errorf("slide index %d out of range (presentation has %d slides)",
			slideIndex, len(pres.Slides))
	}

	box = box.withDefaults()
	boxID := textBoxID(slideIndex, text)
	requests := []*slides.Request{
		{CreateShape: &slides.CreateShapeRequest{
			ObjectId:  boxID,
			ShapeType: "TEXT_BOX",
			ElementProperties: &slides.PageElementProperties{
				PageObjectId: pres.Slides[slideIndex].ObjectId,
				Size: &slides.Size{
					Width:  &slides.Dimension{Magnitude: box.Width, Unit: "PT"},
					Height: &slides.Dimension{Magnitude: box.Height, Unit: "PT"},
				},
				Transform: &slides.AffineTransform{
					ScaleX:     1,
					ScaleY:     1,
					TranslateX: box.X,
					TranslateY: box.Y,
					Unit:       "PT",
				},
			},
		}},
		{InsertText: &slides.InsertTextRequest{
			ObjectId: boxID,
			Text:     text,
		}},
	}

	_, err = c.batchUpdate(presentationID, requests...)
	return err
}

// DeleteSlide removes the slide at the given 0-based index.
func (c *Client) DeleteSlide(presentationID string, slideIndex int64) error {
	pres, err := c.svc.Presentations.Get(presentationID).Do()
	if err != nil {
		return fmt.Errorf("getting presentation %s: %w", presentationID, err)
	}
	if slideIndex < 0 || slideIndex >= int64(len(pres.Slides)) {
		return fmt.Errorf("slide index %d out of range (presentation has %d slides)",
			slideIndex, len(pres.Slides))
	}

	_, err = c.batchUpdate(presentationID, &slides.Request{
		DeleteObject: &slides.DeleteObjectRequest{
			ObjectId: pres.Slides[slideIndex].ObjectId,
		},
	})
	return err
}

func (c *Client) batchUpdate(presentationID string, requests ...*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	res, err := c.svc.Presentations.BatchUpdate(presentationID,
		&slides.BatchUpdatePresentationRequest{Requests: requests}).Do()
	if err != nil {
		return nil, fmt.Errorf("updating presentation %s: %w", presentationID, err)
	}
	return res, nil
}

// slideText collects the text runs of every shape on a slide.
func slideText(slide *slides.Page) []string {
	var texts []string
	for _, el := range slide.PageElements {
		if el.Shape == nil || el.Shape.Text == nil {
			continue
		}
		for _, te := range el.Shape.Text.TextElements {
			if te.TextRun == nil {
				continue
			}
			if t := strings.TrimSpace(te.TextRun.Content); t != "" {
				texts = append(texts, t)
			}
		}
	}
	return texts
}

// textBoxID derives a stable object ID for a text box from its slide and
// content. Object IDs must be unique within the presentation.
func textBoxID(slideIndex int64, text string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("textbox_%d_%d", slideIndex, h.Sum32()%100000)
}

func presentationURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/presentation/d/%s/edit", id)
}
