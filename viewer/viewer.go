// Package viewer builds the HTML fragment that shows a structure in the
// browser with 3Dmol.js.
package viewer

import (
	"bytes"
	"errors"
	"html/template"
	"regexp"
	"strconv"
	"sync/atomic"
)

// ScriptURL is where pages load 3Dmol.js from.
const ScriptURL = "https://3Dmol.org/build/3Dmol-min.js"

// ErrEmpty is returned when there is no structure text to show.
var ErrEmpty = errors.New("empty structure")

var validStyle = regexp.MustCompile(`^[a-z]+$`)

// Options control how a structure is drawn.
type Options struct {
	Width, Height int

	// Background is a CSS color, usually the page theme's background.
	Background string

	// Style is a 3Dmol.js style name such as "cartoon" or "stick". The
	// structure is colored by spectrum.
	Style string
}

// DefaultOptions draws a spectrum colored cartoon at 800x600.
var DefaultOptions = Options{
	Width:      800,
	Height:     600,
	Background: "#2a2a36",
	Style:      "cartoon",
}

var counter uint64

var fragment = template.Must(template.New("viewer").Parse(`
<div id="{{.ID}}" class="viewer" style="width: {{.Width}}px; height: {{.Height}}px; position: relative;"></div>
<script>
(function() {
	var element = document.getElementById({{.ID}});
	var viewer = $3Dmol.createViewer(element, {backgroundColor: {{.Background}}});
	viewer.addModel({{.PDB}}, "pdb");
	var style = {};
	style[{{.Style}}] = {color: "spectrum"};
	viewer.setStyle({}, style);
	viewer.zoomTo();
	viewer.render();
})();
</script>
`))

// Render returns an HTML fragment that displays the PDB text. The text is
// embedded in the page, so no further request is made for it.
func Render(pdbText string, opts Options) (template.HTML, error) {
	if len(pdbText) == 0 {
		return "", ErrEmpty
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}
	if len(opts.Background) == 0 {
		opts.Background = DefaultOptions.Background
	}
	if !validStyle.MatchString(opts.Style) {
		opts.Style = DefaultOptions.Style
	}

	buf := new(bytes.Buffer)
	err := fragment.Execute(buf, struct {
		Options
		ID  string
		PDB string
	}{
		Options: opts,
		ID:      nextID(),
		PDB:     pdbText,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func nextID() string {
	return "viewer-" + strconv.FormatUint(atomic.AddUint64(&counter, 1), 10)
}
