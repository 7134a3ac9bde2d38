package figure

import "image/color"

// Palette is an indexable color sequence; implementations wrap around.
type Palette interface {
	Color(i int) color.Color
}

// Colors is a fixed palette that repeats.
type Colors []color.Color

func (c Colors) Color(i int) color.Color {
	if len(c) == 0 {
		return color.Black
	}
	return c[i%len(c)]
}

// Cycle hands out palette colors in order.
type Cycle struct {
	palette Palette
	next    int
}

// NewCycle starts a cycle at the first palette color. A nil palette yields black.
func NewCycle(p Palette) *Cycle {
	if p == nil {
		p = Colors(nil)
	}
	return &Cycle{palette: p}
}

// Next returns the next unused color.
func (c *Cycle) Next() color.Color {
	col := c.palette.Color(c.next)
	c.next++
	return col
}

// Used reports how many colors have been taken.
func (c *Cycle) Used() int { return c.next }
