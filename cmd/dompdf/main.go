// dompdf exports an element of a web page to a paged PDF.
//
// Usage:
//
//	dompdf export [options] <url|file.html>
//	dompdf plan [options] <snapshot.json>
//	dompdf info <file.pdf>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	dompdf "github.com/porticus-lab/go-dom-pdf"
	"github.com/porticus-lab/go-dom-pdf/document"
	"github.com/porticus-lab/go-dom-pdf/geometry"
	"github.com/porticus-lab/go-dom-pdf/paginate"
	"github.com/porticus-lab/go-dom-pdf/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "plan":
		if err := runPlan(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := runInfo(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `dompdf - export a web page element to a paged PDF

Usage:
  dompdf export [options] <url|file.html>
  dompdf plan [options] <snapshot.json>
  dompdf info <file.pdf>

Commands:
  export    Render the element in headless Chrome and write a PDF
  plan      Print the page cuts for a geometry snapshot
  info      Display the version and page sizes of a PDF

Export options:
  -c <file>         TOML config file; options below override it
  -o <file>         Output file (default: name from config, or a timestamp)
  -s <selector>     Root element (default: body)
  -size <name>      A3, A4, A5, Letter, Legal, Tabloid (default: A4)
  -landscape        Landscape orientation
  -m <margins>      Margins in points, e.g. "10" or "20,15" (default: 10)
  -scale <n>        Device pixel ratio of the capture (default: 2)
  -header <text>    Header line; {page} and {total} are replaced
  -footer <text>    Footer line; {page} and {total} are replaced
  -no-sandbox       Disable the Chrome sandbox (needed as root)
  -auto-download    Download Chromium when none is installed
  -v                Debug logging

Plan options:
  -capacity <px>    Page height in snapshot pixels (default: from -size/-m)
  -size, -landscape, -m, -scale   as for export
  -monoblock <list> Comma separated monoblock classes
  -break <list>     Comma separated page-break classes
  -f <format>       Output format: text, json (default: text)

Examples:
  dompdf export -s '#invoice' -o invoice.pdf https://example.com/invoice/42
  dompdf export -c report.toml report.html
  dompdf plan -capacity 1600 -f json snapshot.json
  dompdf info invoice.pdf
`)
}

// exportArgs are the command-line options of "export".
type exportArgs struct {
	configFile   string
	output       string
	selector     string
	size         string
	landscape    bool
	margin       string
	scale        string
	header       string
	footer       string
	noSandbox    bool
	autoDownload bool
	verbose      bool
	input        string
}

func parseExportArgs(args []string) (exportArgs, error) {
	var a exportArgs
	for i := 0; i < len(args); i++ {
		value := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("%s requires an argument", args[i-1])
			}
			return args[i], nil
		}
		var err error
		switch args[i] {
		case "-c":
			a.configFile, err = value()
		case "-o":
			a.output, err = value()
		case "-s":
			a.selector, err = value()
		case "-size":
			a.size, err = value()
		case "-m":
			a.margin, err = value()
		case "-scale":
			a.scale, err = value()
		case "-header":
			a.header, err = value()
		case "-footer":
			a.footer, err = value()
		case "-landscape":
			a.landscape = true
		case "-no-sandbox":
			a.noSandbox = true
		case "-auto-download":
			a.autoDownload = true
		case "-v":
			a.verbose = true
		default:
			if strings.HasPrefix(args[i], "-") {
				return a, fmt.Errorf("unknown option: %s", args[i])
			}
			a.input = args[i]
		}
		if err != nil {
			return a, err
		}
	}
	if a.input == "" {
		return a, fmt.Errorf("no input specified")
	}
	return a, nil
}

// resolve merges the config file with the command-line options.
func (a exportArgs) resolve() (config, *dompdf.ExportOptions, error) {
	var cfg config
	if a.configFile != "" {
		var err error
		if cfg, err = loadConfig(a.configFile); err != nil {
			return cfg, nil, err
		}
	}
	if a.selector != "" {
		cfg.Selector = a.selector
	}
	if a.size != "" {
		cfg.Size = a.size
	}
	if a.landscape {
		cfg.Landscape = true
	}
	if a.margin != "" {
		m, err := parseMargin(a.margin)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Margin = m
	}
	if a.scale != "" {
		s, err := strconv.ParseFloat(a.scale, 64)
		if err != nil || s <= 0 {
			return cfg, nil, fmt.Errorf("invalid scale %q", a.scale)
		}
		cfg.Scale = s
	}
	if a.header != "" {
		cfg.Header = &bandConfig{Text: a.header}
	}
	if a.footer != "" {
		cfg.Footer = &bandConfig{Text: a.footer}
	}
	if a.output != "" {
		cfg.Name = a.output
	}
	cfg.Browser.NoSandbox = cfg.Browser.NoSandbox || a.noSandbox
	cfg.Browser.AutoDownload = cfg.Browser.AutoDownload || a.autoDownload

	opts, err := cfg.exportOptions()
	return cfg, opts, err
}

// runExport implements the "export" command.
func runExport(args []string) error {
	a, err := parseExportArgs(args)
	if err != nil {
		return err
	}
	cfg, opts, err := a.resolve()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	convOpts := []dompdf.Option{dompdf.WithLogger(logger)}
	if cfg.Browser.ChromePath != "" {
		convOpts = append(convOpts, dompdf.WithChromePath(cfg.Browser.ChromePath))
	}
	if cfg.Browser.NoSandbox {
		convOpts = append(convOpts, dompdf.WithNoSandbox())
	}
	if cfg.Browser.AutoDownload {
		convOpts = append(convOpts, dompdf.WithAutoDownload())
	}
	if cfg.Browser.TimeoutSec > 0 {
		convOpts = append(convOpts, dompdf.WithTimeout(time.Duration(cfg.Browser.TimeoutSec)*time.Second))
	}

	conv, err := dompdf.NewConverter(convOpts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	ctx := context.Background()
	var res *dompdf.Result
	if strings.Contains(a.input, "://") {
		res, err = conv.ExportURL(ctx, a.input, opts)
	} else {
		res, err = conv.ExportFile(ctx, a.input, opts)
	}
	if err != nil {
		return err
	}
	if err := res.Save(); err != nil {
		return fmt.Errorf("writing %s: %w", res.Name(), err)
	}
	fmt.Printf("%s: %d pages, %d bytes\n", res.Name(), res.PageCount(), res.Len())
	return nil
}

// planArgs are the command-line options of "plan".
type planArgs struct {
	capacity  float64
	size      string
	landscape bool
	margin    []float64
	scale     float64
	monoblock []string
	breaks    []string
	format    string
	input     string
}

func parsePlanArgs(args []string) (planArgs, error) {
	a := planArgs{scale: 1, format: "text"}
	for i := 0; i < len(args); i++ {
		flag := args[i]
		value := func() (string, error) {
			i++
			if i >= len(args) {
				return "", errors.New("missing argument")
			}
			return args[i], nil
		}
		var (
			v   string
			err error
		)
		switch args[i] {
		case "-capacity":
			if v, err = value(); err == nil {
				a.capacity, err = strconv.ParseFloat(v, 64)
			}
		case "-scale":
			if v, err = value(); err == nil {
				a.scale, err = strconv.ParseFloat(v, 64)
			}
		case "-m":
			if v, err = value(); err == nil {
				a.margin, err = parseMargin(v)
			}
		case "-size":
			a.size, err = value()
		case "-monoblock":
			if v, err = value(); err == nil {
				a.monoblock = splitList(v)
			}
		case "-break":
			if v, err = value(); err == nil {
				a.breaks = splitList(v)
			}
		case "-f":
			a.format, err = value()
		case "-landscape":
			a.landscape = true
		default:
			if strings.HasPrefix(args[i], "-") {
				return a, fmt.Errorf("unknown option: %s", args[i])
			}
			a.input = args[i]
		}
		if err != nil {
			return a, fmt.Errorf("%s: %w", flag, err)
		}
	}
	if a.input == "" {
		return a, fmt.Errorf("no input file specified")
	}
	if a.scale <= 0 {
		return a, fmt.Errorf("invalid scale %v", a.scale)
	}
	return a, nil
}

// planOutput is the JSON form of a plan.
type planOutput struct {
	Capacity float64            `json:"capacity"`
	Height   float64            `json:"height"`
	Cuts     []float64          `json:"cuts"`
	Pages    []paginate.Segment `json:"pages"`
}

// runPlan implements the "plan" command.
func runPlan(args []string, out io.Writer) error {
	a, err := parsePlanArgs(args)
	if err != nil {
		return err
	}

	f, err := os.Open(a.input)
	if err != nil {
		return err
	}
	root, err := geometry.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", a.input, err)
	}

	capacity := a.capacity
	if capacity <= 0 {
		if capacity, err = a.layoutCapacity(root); err != nil {
			return err
		}
	}

	planner := paginate.Planner{
		Capacity:         capacity,
		MonoblockClasses: orDefault(a.monoblock, dompdf.DefaultMonoblockClass),
		PageBreakClasses: orDefault(a.breaks, dompdf.DefaultPageBreakClass),
	}
	plan := planner.Plan(geometry.Root(root, a.scale))

	switch a.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(planOutput{
			Capacity: plan.Capacity,
			Height:   plan.Height,
			Cuts:     plan.Cuts,
			Pages:    plan.Segments(),
		})
	case "text":
		fmt.Fprintf(out, "capacity %g, height %g, %d pages\n", plan.Capacity, plan.Height, plan.Pages())
		for i, seg := range plan.Segments() {
			fmt.Fprintf(out, "  page %d: %g-%g\n", i+1, seg.Start, seg.End)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", a.format)
	}
}

// layoutCapacity derives the page capacity from the paper size and margins
// as an export of root would.
func (a planArgs) layoutCapacity(root *geometry.Element) (float64, error) {
	size, err := parseSize(a.size)
	if err != nil {
		return 0, err
	}
	if size == (dompdf.PageSize{}) {
		size = dompdf.A4
	}
	orientation := dompdf.Portrait
	if a.landscape {
		orientation = dompdf.Landscape
	}
	w, h := size.Points(orientation)
	l, err := render.NewLayout(w, h, dompdf.ResolveMargin(a.margin...), int(root.Width*a.scale))
	if err != nil {
		return 0, err
	}
	return l.Capacity, nil
}

func orDefault(list []string, def string) []string {
	if len(list) == 0 {
		return []string{def}
	}
	return list
}

// runInfo implements the "info" command.
func runInfo(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no input file specified")
	}
	inputFile := args[0]

	info, err := document.InspectFile(inputFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "File:    %s\n", inputFile)
	fmt.Fprintf(out, "Version: PDF-%s\n", info.Version)
	fmt.Fprintf(out, "Pages:   %d\n", len(info.Pages))

	if len(info.Pages) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Page dimensions:")
		for i, p := range info.Pages {
			fmt.Fprintf(out, "  Page %d: %.0f x %.0f pt\n", i+1, p.Width, p.Height)
		}
	}
	return nil
}
