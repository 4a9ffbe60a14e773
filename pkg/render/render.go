// Package render draws comparison images for placement results.
//
// Rendering sits outside the placement core: it consumes the polygon and
// the scored placements read-only and produces PNG bytes. The core never
// depends on this package, so headless consumers (the HTTP API without
// the image flag, the place command) pay nothing for it.
package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/label"
)

// Panel geometry in pixels.
const (
	panelWidth  = 360
	panelHeight = 360
	titleBand   = 52
	panelPad    = 24
)

// Palette. Muted fills with saturated markers, winner panel outlined.
var (
	colorBackground = rgb(0xf7, 0xf9, 0xfb)
	colorWater      = rgb(0xb3, 0xd4, 0xe8)
	colorOutline    = rgb(0x3a, 0x6e, 0x8f)
	colorPoint      = rgb(0xd9, 0x3a, 0x3a)
	colorCircle     = rgb(0x2e, 0x8b, 0x57)
	colorBox        = rgb(0x44, 0x44, 0x44)
	colorWinner     = rgb(0xe6, 0xa8, 0x17)
	colorText       = rgb(0x22, 0x22, 0x22)
)

func rgb(r, g, b int) [3]float64 {
	return [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// Comparison renders the three placements side by side and returns PNG
// bytes. The winning panel gets a highlighted border. The box is the label
// box every placement was scored against.
func Comparison(poly geom.Polygon, c label.Comparison, box label.Box) ([]byte, error) {
	placements := c.Placements()

	width := panelWidth * len(placements)
	height := panelHeight + titleBand
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(colorBackground[0], colorBackground[1], colorBackground[2])
	dc.Clear()

	tr, err := fitTransform(poly)
	if err != nil {
		return nil, err
	}

	for i, p := range placements {
		drawPanel(dc, float64(i*panelWidth), poly, p, box, tr, p.Strategy == c.Winner)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// transform maps polygon coordinates into a panel's drawing area.
type transform struct {
	scale    float64
	offX     float64
	offY     float64
	drawMinX float64
	drawMinY float64
}

func (t transform) apply(p geom.Point) (x, y float64) {
	// Flip Y: polygon coordinates grow upward, image rows grow downward.
	x = t.drawMinX + (p.X-t.offX)*t.scale
	y = t.drawMinY + (t.offY-p.Y)*t.scale
	return x, y
}

// fitTransform computes the shared scale that fits the polygon into one
// panel's drawing area. All panels share it so the three views line up.
func fitTransform(poly geom.Polygon) (transform, error) {
	if err := poly.Validate(); err != nil {
		return transform{}, err
	}
	b := poly.Bounds()
	w, h := b.Width(), b.Height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	availW := float64(panelWidth - 2*panelPad)
	availH := float64(panelHeight - 2*panelPad)
	scale := math.Min(availW/w, availH/h)

	return transform{
		scale:    scale,
		offX:     b.MinX,
		offY:     b.MaxY,
		drawMinX: panelPad + (availW-w*scale)/2,
		drawMinY: float64(titleBand) + panelPad + (availH-h*scale)/2,
	}, nil
}

func drawPanel(dc *gg.Context, left float64, poly geom.Polygon, p label.Placement, box label.Box, tr transform, winner bool) {
	dc.Push()
	dc.Translate(left, 0)

	// Panel border; heavier and colored for the winner.
	dc.SetLineWidth(1)
	dc.SetRGB(colorOutline[0], colorOutline[1], colorOutline[2])
	if winner {
		dc.SetLineWidth(3)
		dc.SetRGB(colorWinner[0], colorWinner[1], colorWinner[2])
	}
	dc.DrawRectangle(2, 2, panelWidth-4, panelHeight+titleBand-4)
	dc.Stroke()

	// Title band
	dc.SetRGB(colorText[0], colorText[1], colorText[2])
	title := label.DisplayName(p.Strategy)
	if winner {
		title += "  *"
	}
	dc.DrawStringAnchored(title, panelWidth/2, 18, 0.5, 0.5)
	status := "does not fit"
	if p.FitsInside {
		status = "fits"
	}
	dc.DrawStringAnchored(
		fmt.Sprintf("distance %.1f  (%s)", p.DistanceToEdge, status),
		panelWidth/2, 36, 0.5, 0.5)

	// Polygon fill and outline
	dc.NewSubPath()
	for i, v := range poly {
		x, y := tr.apply(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetRGB(colorWater[0], colorWater[1], colorWater[2])
	dc.FillPreserve()
	dc.SetRGB(colorOutline[0], colorOutline[1], colorOutline[2])
	dc.SetLineWidth(1.5)
	dc.Stroke()

	px, py := tr.apply(p.Point)

	// Inscribed clearance circle at the candidate, radius = distance-to-edge.
	if p.DistanceToEdge > 0 {
		dc.SetRGB(colorCircle[0], colorCircle[1], colorCircle[2])
		dc.SetLineWidth(1)
		dc.DrawCircle(px, py, p.DistanceToEdge*tr.scale)
		dc.Stroke()
	}

	// Label box outline centered on the candidate.
	bw, bh := box.Width*tr.scale, box.Height*tr.scale
	dc.SetRGB(colorBox[0], colorBox[1], colorBox[2])
	dc.SetLineWidth(1)
	dc.DrawRectangle(px-bw/2, py-bh/2, bw, bh)
	dc.Stroke()

	// Candidate point marker
	dc.SetRGB(colorPoint[0], colorPoint[1], colorPoint[2])
	dc.DrawCircle(px, py, 4)
	dc.Fill()

	dc.Pop()
}
