package main

import (
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/props"
)

// ANSI palette indices per tool category.
var categoryColors = map[brush.Category]string{
	brush.CategoryCreate:  "2",
	brush.CategoryModify:  "4",
	brush.CategoryErase:   "1",
	brush.CategorySpecial: "5",
}

type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer, opts ...termenv.OutputOption) *printer {
	return &printer{out: termenv.NewOutput(w, opts...)}
}

func (p *printer) heading(text, color string) {
	fmt.Fprintln(p.out, p.out.String(text).Bold().Foreground(p.out.Color(color)))
}

func (p *printer) faint(text string) termenv.Style {
	return p.out.String(text).Faint()
}

func (p *printer) tools(infos []brush.Info, km *keymap.Keymap) {
	var current brush.Category
	for _, info := range infos {
		if info.Category != current {
			if current != "" {
				fmt.Fprintln(p.out)
			}
			current = info.Category
			p.heading(string(current), categoryColors[current])
		}
		shortcut := "-"
		if b, ok := km.Tool(info.ID); ok {
			shortcut = b.String()
		}
		fmt.Fprintf(p.out, "  %-18s %-22s %s\n", info.ID, info.Label, p.faint(shortcut))
	}
}

func (p *printer) presets(pr *props.Presets) {
	for i, tool := range pr.Tools() {
		g, _ := pr.Group(tool)
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		p.heading(tool, "6")
		for _, name := range g.Names() {
			prop := g.Get(name)
			fmt.Fprintf(p.out, "  %-24s %-10s %s\n", name, formatValue(prop), p.faint(formatRange(prop)))
		}
	}
}

func (p *printer) report(script string, rep *headless.Report) error {
	p.heading(script, "6")
	data, err := yaml.Marshal(rep)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, string(data))

	last := "no steps"
	if n := len(rep.Results); n > 0 {
		last = rep.Results[n-1]
	}
	color := "2"
	if last == brush.Cancelled.String() {
		color = "3"
	}
	fmt.Fprintln(p.out, p.out.String(fmt.Sprintf("%d points, last result %s", rep.Points, last)).Foreground(p.out.Color(color)))
	return nil
}

func formatValue(prop *props.Prop) string {
	switch prop.Kind {
	case props.Float:
		return fmt.Sprintf("%.4g", prop.Float)
	case props.Vec3:
		return fmt.Sprintf("(%.3g, %.3g, %.3g)", prop.Vec[0], prop.Vec[1], prop.Vec[2])
	default:
		return fmt.Sprint(prop.Value())
	}
}

func formatRange(prop *props.Prop) string {
	switch prop.Kind {
	case props.Enum:
		return "{" + strings.Join(prop.Items, ", ") + "}"
	case props.Bool:
		return ""
	}
	lo, hi := "", ""
	if !gomath.IsInf(prop.Min, -1) {
		lo = fmt.Sprintf("%g", prop.Min)
	}
	if !gomath.IsInf(prop.Max, 1) {
		hi = fmt.Sprintf("%g", prop.Max)
	}
	if lo == "" && hi == "" {
		return ""
	}
	return "[" + lo + ".." + hi + "]"
}
