package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strconv"

	"github.com/spektr-org/charts/config"
	"github.com/spektr-org/charts/engine"
	"github.com/spektr-org/charts/helpers"
	"github.com/spektr-org/charts/render"
	"github.com/spektr-org/charts/schema"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// SCATTER CLI — Grouped scatter charts from CSV files and SQLite queries
// ============================================================================

const version = "0.3.0"

// cliOptions holds the flag values. Non-empty values win over the config
// file.
type cliOptions struct {
	configPath string
	file       string
	db         string
	query      string
	x, y       string
	color      string
	marker     string
	title      string
	legend     string
	width      int
	height     int
	format     string
	discover   bool
}

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	var o cliOptions
	flag.StringVar(&o.configPath, "config", "", "Path to YAML chart description")
	flag.StringVar(&o.file, "file", "", "Path to CSV data file")
	flag.StringVar(&o.db, "db", "", "Path to SQLite database (use with --query)")
	flag.StringVar(&o.query, "query", "", "SQL query to run against --db")
	flag.StringVar(&o.x, "x", "", "Column for the x axis")
	flag.StringVar(&o.y, "y", "", "Column for the y axis")
	flag.StringVar(&o.color, "color", "", "Column that picks point colors")
	flag.StringVar(&o.marker, "marker", "", "Column that picks point markers")
	flag.StringVar(&o.title, "title", "", "Chart title")
	flag.StringVar(&o.legend, "legend", "", "Legend position: top_right, top_left, bottom_right, bottom_left, none")
	flag.IntVar(&o.width, "width", 0, "Chart width in pixels")
	flag.IntVar(&o.height, "height", 0, "Chart height in pixels")
	flag.StringVar(&o.format, "format", "png", "Output format: png, svg, pdf, jpg, tiff, html, json, csv")
	flag.BoolVar(&o.discover, "discover", false, "Print the detected schema and suggested columns, then exit")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `scatter — grouped scatter charts

Usage:
  scatter --file cars.csv --x weight --y mpg --color origin --out cars.png
  scatter --file cars.csv --x weight --y mpg --marker cylinders --format html --out cars.html
  scatter --db cars.db --query "SELECT * FROM cars" --x weight --y mpg --format svg
  scatter --config chart.yaml --format json
  scatter --file cars.csv --discover

Flags:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("scatter %s\n", version)
		os.Exit(0)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	if err := run(context.Background(), o, writer); err != nil {
		if errors.Is(err, errNoSource) {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
			flag.Usage()
			os.Exit(1)
		}
		fatalf("%v", err)
	}
	if *outFile != "" {
		log.Printf("📄 %s written to %s", o.format, *outFile)
	}
}

var errNoSource = errors.New("either --file or --db with --query is required")

func run(ctx context.Context, o cliOptions, w io.Writer) error {
	// ── Chart description ─────────────────────────────────────────────────
	desc := &config.File{}
	if o.configPath != "" {
		var err error
		if desc, err = config.Load(o.configPath); err != nil {
			return err
		}
		log.Printf("📋 Loaded config: %s", o.configPath)
	}
	o.merge(desc)

	// ── Data ──────────────────────────────────────────────────────────────
	data, sch, err := load(ctx, desc.Source)
	if err != nil {
		return err
	}
	log.Printf("📊 Loaded %d rows", data.Len())

	if o.discover {
		if sch == nil {
			return errors.New("--discover needs a CSV --file")
		}
		return writeJSON(w, discoverOutput{Schema: sch, Suggestion: sch.Suggest()})
	}

	if desc.X == "" && desc.Y == "" && sch != nil {
		s := sch.Suggest()
		desc.X, desc.Y = s.X, s.Y
		if desc.Color == "" && desc.Marker == "" {
			desc.Color, desc.Marker = s.Color, s.Marker
		}
		log.Printf("🔍 Suggested: x=%s y=%s color=%s marker=%s", desc.X, desc.Y, desc.Color, desc.Marker)
	}

	// ── Build ─────────────────────────────────────────────────────────────
	opts, err := desc.Options()
	if err != nil {
		return err
	}
	chart, err := engine.Scatter(data, desc.X, desc.Y, opts...)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}

	// ── Render output ─────────────────────────────────────────────────────
	switch o.format {
	case "json":
		return writeJSON(w, chart)
	case "csv":
		return writeCSV(w, chart)
	case "html":
		return render.WriteHTML(w, chart)
	default:
		if !slices.Contains(render.ImageFormats, o.format) {
			return fmt.Errorf("unknown format %q", o.format)
		}
		return render.WriteImage(w, chart, o.format)
	}
}

func (o cliOptions) merge(f *config.File) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Source.File, o.file)
	set(&f.Source.DB, o.db)
	set(&f.Source.Query, o.query)
	set(&f.X, o.x)
	set(&f.Y, o.y)
	set(&f.Color, o.color)
	set(&f.Marker, o.marker)
	set(&f.Title, o.title)
	set(&f.Legend, o.legend)
	if o.width > 0 {
		f.Width = o.width
	}
	if o.height > 0 {
		f.Height = o.height
	}
}

// load reads the data named by src. The schema is only known for CSV input.
func load(ctx context.Context, src config.Source) (table.Table, *schema.Config, error) {
	switch {
	case src.File != "":
		raw, err := os.ReadFile(src.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read file: %w", err)
		}
		t, sch, err := helpers.ParseCSVAuto(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("auto-detect failed: %w", err)
		}
		log.Printf("🔍 Auto-Detect: %s (%d dims, %d measures, %d skipped)",
			sch.Name, len(sch.Dimensions), len(sch.Measures), len(sch.SkippedColumns))
		return t, sch, nil
	case src.DB != "" && src.Query != "":
		t, err := helpers.LoadSQLite(ctx, src.DB, src.Query)
		if err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	}
	return nil, nil, errNoSource
}

// ============================================================================
// OUTPUT
// ============================================================================

type discoverOutput struct {
	Schema     *schema.Config    `json:"schema"`
	Suggestion schema.Suggestion `json:"suggestion"`
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeCSV writes one row per point of every visible renderer.
func writeCSV(w io.Writer, chart *engine.Chart) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"renderer", "label", chart.XLabel, chart.YLabel, "marker", "fill_color", "line_color"})
	for _, r := range chart.VisibleRenderers() {
		for i := range r.Source.Len() {
			row := r.Source.Row(i)
			cw.Write([]string{r.Name, row.Label, fmtNum(row.X), fmtNum(row.Y), row.Marker.String(), row.FillColor, row.LineColor})
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
