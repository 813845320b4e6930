package slides

// Presentation is a simplified Google Slides presentation.
type Presentation struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	URL    string      `json:"url,omitempty"`
	Slides []SlideInfo `json:"slides,omitempty"`
}

// SlideInfo is one slide and its text content.
type SlideInfo struct {
	ID   string   `json:"id"`
	Text []string `json:"text,omitempty"`
}

// Box positions and sizes a text box in points.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b Box) withDefaults() Box {
	if b.X == 0 {
		b.X = 100
	}
	if b.Y == 0 {
		b.Y = 100
	}
	if b.Width == 0 {
		b.Width = 400
	}
	if b.Height == 0 {
		b.Height = 200
	}
	return b
}
