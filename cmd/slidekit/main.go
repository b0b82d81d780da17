// Command slidekit builds, inspects and renders annotated slide decks.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/slidekit/internal/config"
	"github.com/ha1tch/slidekit/pkg/callout"
	"github.com/ha1tch/slidekit/pkg/deck"
	"github.com/ha1tch/slidekit/pkg/demo"
	"github.com/ha1tch/slidekit/pkg/feed"
	"github.com/ha1tch/slidekit/pkg/render"
)

const usage = `slidekit - annotated image slide toolkit

Usage:
  slidekit <command> [options]

Commands:
  demo       Fetch random dog photos and write a demo deck
  render     Render a slide (svg, png) or the whole deck (html)
  info       Show deck information
  validate   Validate a deck file
  leader     Print leader-line geometry for one label

Examples:
  slidekit demo -o dogs.yaml -n 5
  slidekit render dogs.yaml -s 2 -o slide2.png
  slidekit render dogs.yaml -f html -o dogs.html
  slidekit render dogs.yaml --chrome -o dogs.png
  slidekit leader lt 5 25 50 50

Settings are read from ~/.slidekit.yaml.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	cfg := config.Load(config.Path())

	switch cmd {
	case "demo":
		cmdDemo(args, cfg)
	case "render":
		cmdRender(args, cfg)
	case "info":
		cmdInfo(args)
	case "validate":
		cmdValidate(args)
	case "leader":
		cmdLeader(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func cmdDemo(args []string, cfg config.Config) {
	output := defaultDemoOutput(cfg)
	count := cfg.Count
	apiURL := cfg.APIURL
	var seed uint64
	seeded := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-n", "--count":
			if i+1 < len(args) {
				n, err := strconv.Atoi(args[i+1])
				if err != nil || n <= 0 {
					fail("Invalid count: %s", args[i+1])
				}
				count = n
				i++
			}
		case "--api":
			if i+1 < len(args) {
				apiURL = args[i+1]
				i++
			}
		case "--seed":
			if i+1 < len(args) {
				v, err := strconv.ParseUint(args[i+1], 10, 64)
				if err != nil {
					fail("Invalid seed: %s", args[i+1])
				}
				seed, seeded = v, true
				i++
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	urls, err := feed.NewClient(apiURL, cfg.Timeout).Random(ctx, count)
	if err != nil {
		fail("Error fetching images: %v", err)
	}

	var d *deck.Deck
	if seeded {
		d = demo.Deck(urls, demo.Seeded(seed))
	} else {
		d = demo.Deck(urls, nil)
	}

	if err := deck.WriteFile(output, d); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	saveLastDir(cfg, output)
	fmt.Printf("Written: %s (%d slides)\n", output, d.Len())
}

func cmdRender(args []string, cfg config.Config) {
	if len(args) < 1 {
		fail("Usage: slidekit render <deck> [-s slide] [-f svg|png|html] [-o output] [-W width] [-H height] [-t title] [--chrome] [--no-sandbox]")
	}

	input := args[0]
	var output, title, format string
	slide := 1
	width, height := cfg.Width, cfg.Height
	chrome, noSandbox := false, false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-f", "--format":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		case "-s", "--slide":
			if i+1 < len(args) {
				n, err := strconv.Atoi(args[i+1])
				if err != nil {
					fail("Invalid slide: %s", args[i+1])
				}
				slide = n
				i++
			}
		case "-W", "--width":
			if i+1 < len(args) {
				width = atoiOr(args[i+1], width)
				i++
			}
		case "-H", "--height":
			if i+1 < len(args) {
				height = atoiOr(args[i+1], height)
				i++
			}
		case "--chrome":
			chrome = true
		case "--no-sandbox":
			noSandbox = true
		}
	}

	d, err := deck.ReadFile(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}
	if title == "" {
		title = d.Title
	}

	if format == "" {
		format = formatFor(output, cfg.Format)
	}
	if chrome {
		format = "png"
	}
	if !config.ValidFormat(format) {
		fail("Unknown output format: %s", format)
	}

	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if format == "html" {
			output = base + ".html"
		} else {
			output = fmt.Sprintf("%s-%d.%s", base, slide, format)
		}
	}

	var buf bytes.Buffer
	switch {
	case chrome:
		err = renderChrome(&buf, resolveSlides(d.Slides, input, ""), title, width, height, noSandbox, cfg.Timeout)
	case format == "html":
		err = render.RenderHTML(&buf, resolveSlides(d.Slides, input, output),
			render.HTMLOptions{Title: title, Width: width, Height: height})
	default:
		if slide < 1 || slide > d.Len() {
			fail("Slide %d out of range (deck has %d)", slide, d.Len())
		}
		s := resolveSlide(d.Slide(slide-1), input)
		opts := render.DefaultOptions()
		opts.Width, opts.Height, opts.Title = width, height, title
		if format == "svg" {
			err = render.RenderSVG(&buf, s, opts)
		} else {
			err = renderPNG(&buf, s, opts, cfg.Timeout)
		}
	}
	if err != nil {
		fail("Error rendering %s: %v", input, err)
	}

	if output == "-" {
		os.Stdout.Write(buf.Bytes())
		return
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	saveLastDir(cfg, output)
	fmt.Printf("Written: %s\n", output)
}

func renderPNG(buf *bytes.Buffer, s callout.Slide, opts render.Options, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var bg image.Image
	img, err := render.NewLoader().Load(ctx, s.Image)
	if err != nil {
		// Render with a placeholder rather than failing the whole slide.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		bg = img
	}
	return render.RenderPNG(buf, s, bg, opts)
}

func renderChrome(buf *bytes.Buffer, slides []callout.Slide, title string, width, height int, noSandbox bool, timeout time.Duration) error {
	var page bytes.Buffer
	if err := render.RenderHTML(&page, slides, render.HTMLOptions{Title: title, Width: width, Height: height}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	png, err := render.Screenshot(ctx, page.Bytes(), render.ScreenshotOptions{
		Width:     width + 100,
		Height:    height + 200,
		NoSandbox: noSandbox,
	})
	if err != nil {
		return err
	}
	_, err = buf.Write(png)
	return err
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: slidekit info <deck>")
	}

	input := args[0]
	d, err := deck.ReadFile(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}
	fmt.Print(d.Info())
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fail("Usage: slidekit validate <deck>")
	}

	input := args[0]
	d, err := deck.ReadFile(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}

	if err := d.Validate(); err != nil {
		fail("Validation failed: %v", err)
	}

	fmt.Printf("%s: valid deck with %d slides, %d labels\n", input, d.Len(), d.LabelCount())
}

func cmdLeader(args []string) {
	if len(args) < 5 {
		fail("Usage: slidekit leader <lt|rt|lb|rb> <start-x> <start-y> <end-x> <end-y>")
	}

	p, err := callout.ParsePlacement(args[0])
	if err != nil {
		fail("Error: %v", err)
	}

	var v [4]float64
	for i := range v {
		v[i], err = strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			fail("Invalid coordinate: %s", args[i+1])
		}
	}

	l := callout.NewLeaderLine(callout.Point{X: v[0], Y: v[1]}, callout.Point{X: v[2], Y: v[3]}, p)
	fmt.Print(leaderReport(p, l))
}

func leaderReport(p callout.Placement, l callout.LeaderLine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Placement: %s (%s)\n", p.Name(), p)
	fmt.Fprintf(&sb, "Start:     (%g, %g)\n", l.Start.X, l.Start.Y)
	fmt.Fprintf(&sb, "Control:   (%g, %g)\n", l.Control.X, l.Control.Y)
	fmt.Fprintf(&sb, "End:       (%g, %g)\n", l.End.X, l.End.Y)
	fmt.Fprintf(&sb, "Angle:     %.4f rad\n", l.Angle)
	fmt.Fprintf(&sb, "Arrow:     (%g, %g) (%g, %g)\n", l.Arrow[0].X, l.Arrow[0].Y, l.Arrow[1].X, l.Arrow[1].Y)
	if l.IsDegenerate() {
		sb.WriteString("Degenerate: start and end coincide\n")
	}
	fmt.Fprintf(&sb, "Path:      %s\n", l.PathData())
	fmt.Fprintf(&sb, "Arrowhead: %s\n", l.ArrowPathData())
	return sb.String()
}

// formatFor picks the render format from the output extension.
func formatFor(output, fallback string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	case ".html", ".htm":
		return "html"
	}
	return fallback
}

// resolveSlide makes a relative image path relative to the deck file.
func resolveSlide(s callout.Slide, deckPath string) callout.Slide {
	if s.Image == "" || render.IsRemote(s.Image) || filepath.IsAbs(s.Image) {
		return s
	}
	s.Image = filepath.Join(filepath.Dir(deckPath), s.Image)
	return s
}

// resolveSlides resolves relative image paths against the deck file. When
// the slides go into a page at output, paths are made relative to that page
// instead; "" or "-" keeps them resolved from the working directory.
func resolveSlides(slides []callout.Slide, deckPath, output string) []callout.Slide {
	out := make([]callout.Slide, len(slides))
	for i, s := range slides {
		r := resolveSlide(s, deckPath)
		if r.Image != s.Image && output != "" && output != "-" {
			if rel, err := relativeTo(filepath.Dir(output), r.Image); err == nil {
				r.Image = rel
			}
		}
		out[i] = r
	}
	return out
}

func relativeTo(dir, path string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// defaultDemoOutput places new demo decks in the last used directory.
func defaultDemoOutput(cfg config.Config) string {
	if cfg.LastDir == "" {
		return "demo.yaml"
	}
	return filepath.Join(cfg.LastDir, "demo.yaml")
}

// rememberDir records the directory of a written file as LastDir.
func rememberDir(cfg config.Config, written string) config.Config {
	if abs, err := filepath.Abs(written); err == nil {
		cfg.LastDir = filepath.Dir(abs)
	}
	return cfg
}

func saveLastDir(cfg config.Config, written string) {
	if err := config.Save(config.Path(), rememberDir(cfg, written)); err != nil {
		log.Printf("slidekit: save config: %v", err)
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
