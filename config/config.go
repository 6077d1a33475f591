// Package config reads chart descriptions from YAML files and turns them
// into engine options.
//
//	title: Auto MPG
//	source:
//	  file: cars.csv
//	x: weight
//	y: mpg
//	color: cylinders
//	marker: origin
//	palette: Set1
//	markers: [circle, square, triangle]
//	legend: bottom_right
//	filters:
//	  origin: [US, EU]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/engine"
	"github.com/spektr-org/charts/table"
)

// Source names where the CLI loads data from: a CSV file, or a SQLite
// database and query.
type Source struct {
	File  string `yaml:"file,omitempty"`
	DB    string `yaml:"db,omitempty"`
	Query string `yaml:"query,omitempty"`
}

// File is a chart description.
type File struct {
	Source Source `yaml:"source,omitempty"`

	Title  string `yaml:"title,omitempty"`
	X      string `yaml:"x,omitempty"`
	Y      string `yaml:"y,omitempty"`
	Color  string `yaml:"color,omitempty"`
	Marker string `yaml:"marker,omitempty"`

	// Palette names a ColorBrewer palette; Colors lists hex colors and wins
	// over Palette when both are set.
	Palette string   `yaml:"palette,omitempty"`
	Colors  []string `yaml:"colors,omitempty"`
	Markers []string `yaml:"markers,omitempty"`

	XLabel string `yaml:"xlabel,omitempty"`
	YLabel string `yaml:"ylabel,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Legend string `yaml:"legend,omitempty"`

	Filters map[string][]string `yaml:"filters,omitempty"`
}

// Load reads and parses a YAML chart description.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses a YAML chart description. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &f, nil
}

// Options converts the description into engine options. X and Y are
// included when set; engine.Scatter's own x and y arguments win over them.
func (f *File) Options() ([]engine.Option, error) {
	var opts []engine.Option

	if f.X != "" {
		opts = append(opts, engine.WithX(f.X))
	}
	if f.Y != "" {
		opts = append(opts, engine.WithY(f.Y))
	}
	if f.Color != "" {
		opts = append(opts, engine.WithColor(f.Color))
	}
	if f.Marker != "" {
		opts = append(opts, engine.WithMarker(f.Marker))
	}

	switch {
	case len(f.Colors) > 0:
		colors, err := attributes.ParsePalette(f.Colors)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithPalette(colors...))
	case f.Palette != "":
		colors, err := attributes.BrewerPalette(f.Palette, 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithPalette(colors...))
	}

	if len(f.Markers) > 0 {
		markers, err := attributes.ParseMarkers(f.Markers)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithMarkers(markers...))
	}

	if f.Title != "" {
		opts = append(opts, engine.WithTitle(f.Title))
	}
	if f.XLabel != "" {
		opts = append(opts, engine.WithXLabel(f.XLabel))
	}
	if f.YLabel != "" {
		opts = append(opts, engine.WithYLabel(f.YLabel))
	}
	if f.Width > 0 || f.Height > 0 {
		opts = append(opts, engine.WithSize(f.Width, f.Height))
	}
	if f.Legend != "" {
		pos, err := engine.ParseLegendPosition(f.Legend)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithLegend(pos))
	}
	if len(f.Filters) > 0 {
		opts = append(opts, engine.WithFilters(table.Filters{Columns: f.Filters}))
	}
	return opts, nil
}
