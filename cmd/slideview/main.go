// Command slideview shows an annotated slide deck in the terminal.
package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ha1tch/slidekit/internal/config"
	"github.com/ha1tch/slidekit/pkg/carousel"
	"github.com/ha1tch/slidekit/pkg/deck"
	"github.com/ha1tch/slidekit/pkg/demo"
	"github.com/ha1tch/slidekit/pkg/feed"
	"github.com/ha1tch/slidekit/pkg/render"
)

const usage = `Usage: slideview [deck.yaml|deck.json] [--demo] [-n count] [--log file]

Keys:
  Left/Right, h/l   previous/next slide
  1-9               jump to slide
  q, Esc            quit
`

// maxLoaders bounds concurrent image downloads.
const maxLoaders = 4

// MessageType controls status bar message styling.
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
)

// imageLoaded is posted to the event loop when a slide image finishes loading.
type imageLoaded struct {
	index int
	img   image.Image
	err   error
}

// Viewer holds all viewer state. Everything except the loader goroutines
// runs on the tcell event loop.
type Viewer struct {
	screen tcell.Screen
	deck   *deck.Deck
	ctrl   *carousel.Controller
	name   string
	dir    string // base for relative image paths

	images []image.Image
	failed []error
	scaled map[int]scaledImage

	message     string
	messageType MessageType

	mouseDown bool
	cancel    context.CancelFunc
	quit      chan struct{}
}

// postRetry is how long postEvent waits before retrying a full queue.
const postRetry = 5 * time.Millisecond

// postEvent delivers ev to the event loop. tcell drops events when its
// queue is full, so this retries until the event is queued or quit closes.
func postEvent(screen tcell.Screen, ev tcell.Event, quit <-chan struct{}) {
	for {
		if err := screen.PostEvent(ev); err == nil {
			return
		}
		select {
		case <-quit:
			return
		case <-time.After(postRetry):
		}
	}
}

// loopScheduler runs timer callbacks on the event loop by posting them as
// interrupt events.
type loopScheduler struct {
	screen tcell.Screen
	quit   <-chan struct{}
}

func (s loopScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		postEvent(s.screen, tcell.NewEventInterrupt(fn), s.quit)
	})
	return func() { t.Stop() }
}

func main() {
	var input, logPath string
	useDemo := false
	cfg := config.Load(config.Path())
	count := cfg.Count

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--demo":
			useDemo = true
		case "-n", "--count":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil && n > 0 {
					count = n
				}
				i++
			}
		case "--log":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			input = args[i]
		}
	}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log %s: %v\n", logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	var d *deck.Deck
	name := input
	switch {
	case input != "":
		var err error
		d, err = deck.ReadFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
			os.Exit(1)
		}
	case useDemo:
		fmt.Println("Fetching images...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		urls, err := feed.NewClient(cfg.APIURL, cfg.Timeout).Random(ctx, count)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		d = demo.Deck(urls, nil)
		name = demo.Title
	default:
		fmt.Print(usage)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	v := newViewer(screen, d, name, nil)
	if input != "" {
		v.dir = filepath.Dir(input)
	}
	v.startLoading(render.NewLoader())
	v.run()
	v.close()

	screen.Fini()
}

// newViewer creates a viewer for d. A nil sched delivers settle timers
// through the screen's event queue.
func newViewer(screen tcell.Screen, d *deck.Deck, name string, sched carousel.Scheduler) *Viewer {
	quit := make(chan struct{})
	if sched == nil {
		sched = loopScheduler{screen: screen, quit: quit}
	}
	return &Viewer{
		screen: screen,
		deck:   d,
		name:   name,
		ctrl:   carousel.New(d.Len(), carousel.WithScheduler(sched)),
		images: make([]image.Image, d.Len()),
		failed: make([]error, d.Len()),
		scaled: make(map[int]scaledImage),
		quit:   quit,
	}
}

// startLoading fetches every slide image in the background. Completions are
// delivered to the event loop.
func (v *Viewer) startLoading(l *render.Loader) {
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel

	refs := make([]string, v.deck.Len())
	for i, s := range v.deck.Slides {
		refs[i] = s.Image
		if v.dir != "" && !render.IsRemote(s.Image) && !filepath.IsAbs(s.Image) {
			refs[i] = filepath.Join(v.dir, s.Image)
		}
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(maxLoaders)
		for i, ref := range refs {
			g.Go(func() error {
				img, err := l.Load(ctx, ref)
				if ctx.Err() != nil {
					return nil
				}
				postEvent(v.screen, tcell.NewEventInterrupt(imageLoaded{index: i, img: img, err: err}), v.quit)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (v *Viewer) close() {
	select {
	case <-v.quit:
		return
	default:
	}
	close(v.quit)
	if v.cancel != nil {
		v.cancel()
	}
	v.ctrl.Close()
}

func (v *Viewer) run() {
	for {
		v.draw()
		v.screen.Show()

		if v.handleEvent(v.screen.PollEvent()) {
			return
		}
	}
}

// handleEvent processes one event and reports whether to quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case func():
			data()
		case imageLoaded:
			v.imageLoaded(data)
		}
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.ctrl.HandleKey(carousel.KeyLeft)
	case tcell.KeyRight:
		v.ctrl.HandleKey(carousel.KeyRight)
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q' || r == 'Q':
			return true
		case r == 'h':
			v.ctrl.HandleKey(carousel.KeyLeft)
		case r == 'l':
			v.ctrl.HandleKey(carousel.KeyRight)
		case r >= '1' && r <= '9':
			v.ctrl.GoTo(int(r - '1'))
		}
	}
	return false
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	clicked := pressed && !v.mouseDown
	v.mouseDown = pressed
	if !clicked {
		return
	}

	x, y := ev.Position()
	w, h := v.screen.Size()
	switch hit := hitTest(x, y, w, h, v.ctrl.Count()); {
	case hit == hitPrevious:
		v.ctrl.Previous()
	case hit == hitNext:
		v.ctrl.Next()
	case hit >= 0:
		v.ctrl.GoTo(hit)
	}
}

func (v *Viewer) imageLoaded(m imageLoaded) {
	if m.index < 0 || m.index >= len(v.images) {
		return
	}
	if m.err != nil {
		log.Printf("slideview: slide %d: %v", m.index+1, m.err)
		v.failed[m.index] = m.err
		v.showMessage(fmt.Sprintf("Slide %d: image failed to load", m.index+1), MsgError)
		return
	}
	v.images[m.index] = m.img
	delete(v.scaled, m.index)

	if loaded := v.loadedCount(); loaded == len(v.images) {
		v.showMessage(fmt.Sprintf("%d images loaded", loaded), MsgInfo)
	}
}

func (v *Viewer) loadedCount() int {
	n := 0
	for _, img := range v.images {
		if img != nil {
			n++
		}
	}
	return n
}

func (v *Viewer) showMessage(msg string, msgType MessageType) {
	v.message = msg
	v.messageType = msgType
}
