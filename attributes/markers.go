package attributes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMarker is returned when a marker name is not recognised.
var ErrUnknownMarker = errors.New("unknown marker")

// Marker names a point shape.
type Marker string

const (
	Circle           Marker = "circle"
	Square           Marker = "square"
	Triangle         Marker = "triangle"
	Diamond          Marker = "diamond"
	InvertedTriangle Marker = "inverted_triangle"
	Cross            Marker = "cross"
	X                Marker = "x"
	Asterisk         Marker = "asterisk"
)

// DefaultMarkers is the order markers are handed out to values.
var DefaultMarkers = []Marker{
	Circle,
	Square,
	Triangle,
	Diamond,
	InvertedTriangle,
	Cross,
	X,
	Asterisk,
}

func (m Marker) String() string { return string(m) }

// Valid reports whether m is one of the known markers.
func (m Marker) Valid() bool {
	for _, known := range DefaultMarkers {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMarker parses a marker name. Hyphens and case are tolerated
// ("Inverted-Triangle" → InvertedTriangle).
func ParseMarker(s string) (Marker, error) {
	m := Marker(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMarker, s)
	}
	return m, nil
}

// ParseMarkers parses a list of marker names.
func ParseMarkers(names []string) ([]Marker, error) {
	out := make([]Marker, 0, len(names))
	for _, n := range names {
		m, err := ParseMarker(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
