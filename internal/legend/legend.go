// Package legend carries the ordered category list and display colours used
// to scope domain tallies and colour report output. Category names are
// case-normalised to lower case on construction, matching how domain values
// are compared.
package legend

import (
	"fmt"
	"image/color"
	"strings"
)

// Legend is an ordered set of category names with display colours.
type Legend struct {
	names   []string
	colours []color.RGBA
	byName  map[string]int
}

// New builds a legend from parallel name and colour slices. Names are
// lower-cased; a missing colour defaults to opaque black.
func New(names []string, colours []color.RGBA) (*Legend, error) {
	if len(colours) > len(names) {
		return nil, fmt.Errorf("legend: %d colours for %d categories", len(colours), len(names))
	}
	l := &Legend{
		names:   make([]string, len(names)),
		colours: make([]color.RGBA, len(names)),
		byName:  make(map[string]int, len(names)),
	}
	for n, name := range names {
		lower := strings.ToLower(name)
		if _, dup := l.byName[lower]; dup {
			return nil, fmt.Errorf("legend: duplicate category %q", lower)
		}
		l.names[n] = lower
		l.byName[lower] = n
		if n < len(colours) {
			l.colours[n] = colours[n]
		} else {
			l.colours[n] = color.RGBA{A: 255}
		}
	}
	return l, nil
}

// Names returns the categories in legend order.
func (l *Legend) Names() []string {
	return l.names
}

// Contains reports whether the legend lists the category.
func (l *Legend) Contains(name string) bool {
	_, ok := l.byName[strings.ToLower(name)]
	return ok
}

// Colour returns the display colour for a category and whether it is listed.
func (l *Legend) Colour(name string) (color.RGBA, bool) {
	n, ok := l.byName[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, false
	}
	return l.colours[n], true
}

// Hex returns the category colour as #rrggbbaa, the form report templates
// expect.
func (l *Legend) Hex(name string) (string, bool) {
	c, ok := l.Colour(name)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), true
}
