package slides

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	slides "google.golang.org/api/slides/v1"
)

func TestSlideText(t *testing.T) {
	page := &slides.Page{
		PageElements: []*slides.PageElement{
			{Shape: &slides.Shape{
				Text: &slides.TextContent{
					TextElements: []*slides.TextElement{
						{TextRun: &slides.TextRun{Content: "Title \n"}},
						{TextRun: &slides.TextRun{Content: "  "}},
						{ParagraphMarker: &slides.ParagraphMarker{}},
					},
				},
			}},
			{Shape: &slides.Shape{}},
			{Shape: &slides.Shape{
				Text: &slides.TextContent{
					TextElements: []*slides.TextElement{
						{TextRun: &slides.TextRun{Content: "Body"}},
					},
				},
			}},
		},
	}

	assert.Equal(t, []string{"Title", "Body"}, slideText(page))
}

func TestSlideTextEmpty(t *testing.T) {
	assert.Empty(t, slideText(&slides.Page{}))
}

func TestTextBoxIDStable(t *testing.T) {
	a := textBoxID(2, "hello")
	b := textBoxID(2, "hello")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "textbox_2_"))

	assert.NotEqual(t, a, textBoxID(3, "hello"))
}

func TestBoxDefaults(t *testing.T) {
	b := Box{}.withDefaults()
	assert.Equal(t, Box{X: 100, Y: 100, Width: 400, Height: 200}, b)

	custom := Box{X: 10, Y: 20, Width: 30, Height: 40}.withDefaults()
	assert.Equal(t, Box{X: 10, Y: 20, Width: 30, Height: 40}, custom)
}

func TestPresentationURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/presentation/d/p1/edit",
		presentationURL("p1"))
}
