package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/ha1tch/slidekit/pkg/callout"
	"github.com/ha1tch/slidekit/pkg/carousel"
)

// HTMLOptions controls the carousel page.
type HTMLOptions struct {
	Title  string
	Stroke string
	Width  int // slider width in pixels; 0 = fluid
	Height int // slider height in pixels
}

type htmlLabel struct {
	Text      string
	Placement string
	X, Y      float64
	Path      string
	Arrow     string
}

type htmlSlide struct {
	Image  string
	Labels []htmlLabel
}

type htmlPage struct {
	Title    string
	Stroke   string
	Width    int
	Height   int
	SettleMS int64
	Slides   []htmlSlide
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(pageHTML))

// RenderHTML writes a self-contained carousel page for the slides.
// The page navigates with the arrow keys and locks for the settle delay
// after each change, like carousel.Controller.
func RenderHTML(w io.Writer, slides []callout.Slide, opts HTMLOptions) error {
	page := htmlPage{
		Title:    opts.Title,
		Stroke:   opts.Stroke,
		Width:    opts.Width,
		Height:   opts.Height,
		SettleMS: carousel.SettleDelay.Milliseconds(),
	}
	if page.Title == "" {
		page.Title = "Slides"
	}
	if page.Stroke == "" {
		page.Stroke = DefaultOptions().Stroke
	}
	if page.Height <= 0 {
		page.Height = DefaultOptions().Height
	}

	for _, s := range slides {
		hs := htmlSlide{Image: s.Image}
		for _, l := range s.Labels {
			line := l.LeaderLine()
			hs.Labels = append(hs.Labels, htmlLabel{
				Text:      l.Text,
				Placement: string(l.Placement),
				X:         l.Start.X,
				Y:         l.Start.Y,
				Path:      line.PathData(),
				Arrow:     line.ArrowPathData(),
			})
		}
		page.Slides = append(page.Slides, hs)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; padding: 40px; font-family: sans-serif; background: #fafafa; }
h1 { text-align: center; }
.slider { position: relative; margin: 0 auto; {{if .Width}}width: {{.Width}}px;{{else}}width: 90%;{{end}} height: {{.Height}}px; overflow: hidden; background: #fff; }
.slide { position: absolute; inset: 0; opacity: 0; transition: opacity {{.SettleMS}}ms ease; }
.slide.active { opacity: 1; }
.slide img { width: 100%; height: 100%; object-fit: contain; }
.slide svg { position: absolute; inset: 0; width: 100%; height: 100%; pointer-events: none; }
.label { position: absolute; padding: 2px 6px; background: rgba(255,255,255,.9); border: 1px solid {{.Stroke}}; border-radius: 4px; font-size: 14px; white-space: nowrap; }
.label-lt { transform: translate(0, -100%); }
.label-rt { transform: translate(-100%, -100%); }
.label-lb { transform: translate(0, 0); }
.label-rb { transform: translate(-100%, 0); }
.nav { position: absolute; top: 50%; transform: translateY(-50%); font-size: 24px; border: 0; background: rgba(0,0,0,.4); color: #fff; cursor: pointer; padding: 8px 14px; }
.nav:disabled { opacity: .3; cursor: default; }
.nav-left { left: 8px; }
.nav-right { right: 8px; }
.dots { position: absolute; bottom: 10px; width: 100%; text-align: center; }
.dot { width: 12px; height: 12px; margin: 0 4px; border-radius: 50%; border: 0; background: #ccc; cursor: pointer; }
.dot.active { background: {{.Stroke}}; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Slides}}<section class="slider" aria-roledescription="carousel">
{{range $i, $s := .Slides}}<article class="slide{{if eq $i 0}} active{{end}}" aria-hidden="{{if eq $i 0}}false{{else}}true{{end}}">
<img src="{{$s.Image}}" alt="Slide {{inc $i}}" loading="{{if eq $i 0}}eager{{else}}lazy{{end}}">
{{range $s.Labels}}<div class="label label-{{.Placement}}" style="left: {{.X}}%; top: {{.Y}}%;"><span>{{.Text}}</span></div>
<svg viewBox="0 0 100 100" preserveAspectRatio="none">
<path d="{{.Path}}" fill="none" stroke="{{$.Stroke}}" stroke-width="2" vector-effect="non-scaling-stroke"/>
<path d="{{.Arrow}}" fill="none" stroke="{{$.Stroke}}" stroke-width="2" vector-effect="non-scaling-stroke"/>
</svg>
{{end}}</article>
{{end}}<button class="nav nav-left" aria-label="Previous slide">&lt;</button>
<button class="nav nav-right" aria-label="Next slide">&gt;</button>
<nav class="dots">{{range $i, $s := .Slides}}<button class="dot{{if eq $i 0}} active{{end}}" aria-label="Go to slide {{inc $i}}" aria-current="{{if eq $i 0}}true{{else}}false{{end}}" data-index="{{$i}}"></button>{{end}}</nav>
</section>
<script>
(function () {
  var settle = {{.SettleMS}};
  var slides = document.querySelectorAll('.slide');
  var dots = document.querySelectorAll('.dot');
  var navs = document.querySelectorAll('.nav');
  var current = 0, locked = false, timer = null;

  function render() {
    slides.forEach(function (s, i) {
      s.classList.toggle('active', i === current);
      s.setAttribute('aria-hidden', i !== current);
    });
    dots.forEach(function (d, i) {
      d.classList.toggle('active', i === current);
      d.setAttribute('aria-current', i === current);
    });
    navs.forEach(function (b) { b.disabled = locked; });
  }
  function show(i) {
    locked = true;
    current = i;
    clearTimeout(timer);
    timer = setTimeout(function () { locked = false; render(); }, settle);
    render();
  }
  function step(d) {
    if (locked) return;
    show(((current + d) % slides.length + slides.length) % slides.length);
  }
  function goTo(i) {
    if (locked || i === current) return;
    show(i);
  }

  navs[0].addEventListener('click', function () { step(-1); });
  navs[1].addEventListener('click', function () { step(1); });
  dots.forEach(function (d) {
    d.addEventListener('click', function () { goTo(+d.dataset.index); });
  });
  window.addEventListener('keydown', function (e) {
    if (e.key === 'ArrowLeft') step(-1);
    if (e.key === 'ArrowRight') step(1);
  });
})();
</script>
{{end}}</body>
</html>
`
