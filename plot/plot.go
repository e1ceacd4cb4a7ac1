// Package plot renders the dashboard bar charts as SVG.
package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/TuftsBCB/mutview/cbio"
	"github.com/TuftsBCB/mutview/pdb"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Theme holds the chart colors as "#rrggbb" strings.
type Theme struct {
	Background string
	Accent     string
	Text       string
}

// DefaultTheme is the dark dashboard theme.
var DefaultTheme = Theme{
	Background: "#2a2a36",
	Accent:     "#7877e6",
	Text:       "#ffffff",
}

// AminoAcids writes a bar chart of residue counts, in the order given.
func AminoAcids(w io.Writer, counts []pdb.ResidueCount, theme Theme) error {
	if len(counts) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		bars[i] = chart.Value{Label: c.Residue, Value: float64(c.Count)}
	}
	return render(w, "Amino acid distribution", bars, 1000, theme)
}

// Mutations writes a bar chart of tumor alternate allele counts. Mutations
// should already be ranked (see cbio.Top).
func Mutations(w io.Writer, muts []cbio.Mutation, theme Theme) error {
	if len(muts) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(muts))
	for i, m := range muts {
		bars[i] = chart.Value{Label: MutationLabel(m), Value: float64(m.AltCount())}
	}
	return render(w, "Top mutations by tumor alt count", bars, 800, theme)
}

// MutationLabel is the short name of a mutation used on chart axes.
func MutationLabel(m cbio.Mutation) string {
	if len(m.ProteinChange) == 0 {
		return m.Gene
	}
	return fmt.Sprintf("%s %s", m.Gene, m.ProteinChange)
}

func render(
	w io.Writer,
	title string,
	bars []chart.Value,
	width int,
	theme Theme,
) error {
	bg := drawing.ColorFromHex(theme.Background)
	fg := drawing.ColorFromHex(theme.Text)
	accent := drawing.ColorFromHex(theme.Accent)

	// The y axis always starts at zero. An all-zero series would otherwise
	// be an empty range, which cannot be drawn.
	top := 1.0
	for i := range bars {
		bars[i].Style = chart.Style{
			FillColor:   accent,
			StrokeColor: accent,
			StrokeWidth: 1,
		}
		if bars[i].Value > top {
			top = bars[i].Value
		}
	}

	axis := chart.Style{FontColor: fg, StrokeColor: fg}
	bc := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: fg},
		Width:      width,
		Height:     400,
		BarWidth:   width / (len(bars) + 1) * 2 / 3,
		Background: chart.Style{
			FillColor: bg,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: bg},
		XAxis:  axis,
		YAxis: chart.YAxis{
			Style:          axis,
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}
