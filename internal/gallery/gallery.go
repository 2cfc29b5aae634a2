// Package gallery implements the cyclic image navigation shared by product cards,
// product detail and blog posts.
package gallery

// Gallery is a cursor over an ordered list of image URLs.
type Gallery struct {
	images []string
	index  int
}

// New returns a gallery positioned on the first image.
func New(images []string) *Gallery {
	g := &Gallery{}
	g.Reset(images)
	return g
}

// Reset replaces the images and moves back to the first one.
func (g *Gallery) Reset(images []string) {
	g.images = append([]string(nil), images...)
	g.index = 0
}

// Len is the number of images.
func (g *Gallery) Len() int { return len(g.images) }

// Index is the position of the current image.
func (g *Gallery) Index() int { return g.index }

// Current returns the current image URL, or "" for an empty gallery.
func (g *Gallery) Current() string {
	if len(g.images) == 0 {
		return ""
	}
	return g.images[g.index]
}

// Next advances to the following image, wrapping around. No-op with fewer than two images.
func (g *Gallery) Next() int {
	if n := len(g.images); n > 1 {
		g.index = (g.index + 1) % n
	}
	return g.index
}

// Prev steps back to the previous image, wrapping around. No-op with fewer than two images.
func (g *Gallery) Prev() int {
	if n := len(g.images); n > 1 {
		g.index = (g.index - 1 + n) % n
	}
	return g.index
}

// Select jumps to index i, as a thumbnail click does. Out of range indexes are ignored.
func (g *Gallery) Select(i int) bool {
	if i < 0 || i >= len(g.images) {
		return false
	}
	g.index = i
	return true
}

// View is the serialisable state of a gallery.
type View struct {
	Images  []string `json:"images"`
	Index   int      `json:"index"`
	Current string   `json:"current"`
	Next    int      `json:"next"`
	Prev    int      `json:"prev"`
}

// View reports the current position and where next/prev would land.
func (g *Gallery) View() View {
	v := View{
		Images:  append([]string{}, g.images...),
		Index:   g.index,
		Current: g.Current(),
		Next:    g.index,
		Prev:    g.index,
	}
	if n := len(g.images); n > 1 {
		v.Next = (g.index + 1) % n
		v.Prev = (g.index - 1 + n) % n
	}
	return v
}
