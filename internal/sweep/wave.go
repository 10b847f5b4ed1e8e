package sweep

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Wave is a periodic function with period 2*pi and range [-1, 1].
type Wave func(phase float64) float64

var waves = map[string]Wave{
	"sine":     math.Sin,
	"cosine":   math.Cos,
	"triangle": triangle,
	"sawtooth": sawtooth,
	"square":   square,
}

// LookupWave returns the named wave. Names are case-insensitive.
func LookupWave(name string) (Wave, error) {
	w, ok := waves[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &dynamo.ConfigError{
			Field:  "sweep.wave",
			Value:  name,
			Reason: fmt.Sprintf("expected one of %s", strings.Join(WaveNames(), ", ")),
		}
	}
	return w, nil
}

// WaveNames lists the registered waves in sorted order.
func WaveNames() []string {
	names := make([]string, 0, len(waves))
	for n := range waves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// cycle returns the position of phase within its period, in [0, 1).
func cycle(phase float64) float64 {
	p := math.Mod(phase/(2*math.Pi), 1)
	if p < 0 {
		p++
	}
	return p
}

// triangle starts at 0 and rises like sine.
func triangle(phase float64) float64 {
	p := cycle(phase)
	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	}
	return 4*p - 4
}

func sawtooth(phase float64) float64 {
	p := cycle(phase) + 0.5
	if p >= 1 {
		p--
	}
	return 2*p - 1
}

func square(phase float64) float64 {
	if cycle(phase) < 0.5 {
		return 1
	}
	return -1
}
