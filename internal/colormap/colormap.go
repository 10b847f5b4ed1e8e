// Package colormap builds gradient lookup tables from hex colour stops.
package colormap

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of entries in every lookup table.
const Size = 256

// Colormap maps t in [0, 1] onto a colour by linear RGB interpolation
// between evenly spaced stops.
type Colormap struct {
	Name  string
	Stops []string
	lut   [Size]color.RGBA
}

// New builds a colormap from at least two hex stops.
func New(name string, stops ...string) (*Colormap, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("colormap %s: need at least 2 stops, got %d", name, len(stops))
	}
	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("colormap %s: stop %d: %w", name, i, err)
		}
		cols[i] = c
	}

	cm := &Colormap{Name: name, Stops: stops}
	segs := float64(len(cols) - 1)
	for i := 0; i < Size; i++ {
		t := float64(i) / (Size - 1) * segs
		k := int(t)
		if k >= len(cols)-1 {
			k = len(cols) - 2
		}
		c := cols[k].BlendRgb(cols[k+1], t-float64(k)).Clamped()
		r, g, b := c.RGB255()
		cm.lut[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return cm, nil
}

func MustNew(name string, stops ...string) *Colormap {
	cm, err := New(name, stops...)
	if err != nil {
		panic(err)
	}
	return cm
}

// At returns the colour for t, clamped into [0, 1].
func (c *Colormap) At(t float64) color.RGBA {
	switch {
	case t != t || t <= 0:
		return c.lut[0]
	case t >= 1:
		return c.lut[Size-1]
	}
	return c.lut[int(t*(Size-1)+0.5)]
}

// Hex returns the colour for t as #rrggbb.
func (c *Colormap) Hex(t float64) string {
	v := c.At(t)
	return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
}

var registry = map[string]*Colormap{
	"clifford": MustNew("clifford", "#000033", "#0066CC", "#00FFFF", "#FFFF00", "#FF6600", "#FF0033"),
	"ember":    MustNew("ember", "#000000", "#3b0a0a", "#a3220d", "#f36f21", "#ffd166", "#ffffff"),
	"ocean":    MustNew("ocean", "#000814", "#001d3d", "#003566", "#0077b6", "#48cae4", "#caf0f8"),
	"mono":     MustNew("mono", "#000000", "#ffffff"),
}

// Get looks a colormap up by name.
func Get(name string) (*Colormap, error) {
	cm, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s (available: %v)", name, Names())
	}
	return cm, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
