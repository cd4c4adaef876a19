package flowchart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emicklei/dot"
	"github.com/fogleman/gg"

	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/tasks"
)

// Output formats accepted by Encode.
const (
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Layout constants for the raster renderer, in pixels.
const (
	margin      = 30.0
	gap         = 44.0
	padX        = 18.0
	padY        = 12.0
	wrapWidth   = 320.0
	minBoxWidth = 140.0
	lineSpacing = 1.5
	arrowSize   = 8.0
)

// Generate builds the flowchart for l and renders it as PNG bytes.
func Generate(l *tasks.List) ([]byte, error) {
	g, err := Build(l)
	if err != nil {
		return nil, err
	}
	return Render(g)
}

// Encode renders g in the requested format.
func Encode(g *Graph, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatPNG, "":
		return Render(g)
	case FormatDOT:
		return []byte(DOT(g)), nil
	default:
		return nil, errs.Unsupported("image format", format)
	}
}

type box struct {
	node  Node
	lines []string
	w, h  float64
}

// Render draws g top to bottom and returns the PNG bytes. Nothing is
// written to disk.
func Render(g *Graph) ([]byte, error) {
	if g == nil || len(g.Nodes) == 0 {
		return nil, fmt.Errorf("flowchart: render: %w", errs.ErrEmptyInput)
	}

	// A 1x1 context carries the default face for text measurement.
	measure := gg.NewContext(1, 1)
	lineH := measure.FontHeight() * lineSpacing

	boxes := make([]box, 0, len(g.Nodes))
	width, height := 0.0, margin*2
	for _, n := range g.Nodes {
		b := box{node: n, lines: wrapLabel(measure, n.Label)}
		for _, line := range b.lines {
			if w, _ := measure.MeasureString(line); w > b.w {
				b.w = w
			}
		}
		b.w += padX * 2
		if b.w < minBoxWidth {
			b.w = minBoxWidth
		}
		b.h = float64(len(b.lines))*lineH + padY*2
		if b.w > width {
			width = b.w
		}
		height += b.h
		boxes = append(boxes, b)
	}
	height += gap * float64(len(boxes)-1)
	width += margin * 2

	dc := gg.NewContext(int(width), int(height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetLineWidth(1.5)

	cx := width / 2
	y := margin
	for i, b := range boxes {
		x := cx - b.w/2
		radius := 6.0
		if b.node.Kind == KindTerminal {
			radius = b.h / 2
			dc.SetHexColor("#90EE90")
		} else {
			dc.SetHexColor("#ADD8E6")
		}
		dc.DrawRoundedRectangle(x, y, b.w, b.h, radius)
		dc.FillPreserve()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.Stroke()

		dc.SetRGB(0, 0, 0)
		ty := y + padY + lineH/2
		for _, line := range b.lines {
			dc.DrawStringAnchored(line, cx, ty, 0.5, 0.35)
			ty += lineH
		}

		bottom := y + b.h
		y = bottom + gap
		if i < len(boxes)-1 {
			drawArrow(dc, cx, bottom, y)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("flowchart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapLabel splits a label on newlines and wraps each line to wrapWidth.
// Words wider than wrapWidth are broken between runes.
func wrapLabel(dc *gg.Context, label string) []string {
	var out []string
	for _, line := range strings.Split(label, "\n") {
		if line == "" {
			continue
		}
		for _, wrapped := range dc.WordWrap(line, wrapWidth) {
			out = append(out, breakLong(dc, wrapped)...)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func breakLong(dc *gg.Context, line string) []string {
	if w, _ := dc.MeasureString(line); w <= wrapWidth {
		return []string{line}
	}
	var out []string
	var cur []rune
	for _, r := range line {
		next := append(cur, r)
		if w, _ := dc.MeasureString(string(next)); w > wrapWidth && len(cur) > 0 {
			out = append(out, string(cur))
			next = []rune{r}
		}
		cur = next
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func drawArrow(dc *gg.Context, x, fromY, toY float64) {
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawLine(x, fromY, x, toY-arrowSize)
	dc.Stroke()

	dc.MoveTo(x, toY)
	dc.LineTo(x-arrowSize/2, toY-arrowSize)
	dc.LineTo(x+arrowSize/2, toY-arrowSize)
	dc.ClosePath()
	dc.Fill()
}

// DOT returns g as a Graphviz digraph.
func DOT(g *Graph) string {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "TB")

	nodes := make(map[string]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		dn := out.Node(n.ID).Label(n.Label).Box()
		if n.Kind == KindTerminal {
			dn.Attr("shape", "ellipse")
		}
		nodes[n.ID] = dn
	}
	for _, e := range g.Edges {
		out.Edge(nodes[e.From], nodes[e.To])
	}
	return out.String()
}
