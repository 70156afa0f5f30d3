package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/trace"
)

var highlightFill = map[deck.Highlight]string{
	deck.None:      "#fdfdfd",
	deck.Comparing: "#ffe08a",
	deck.Current:   "#9ecbff",
	deck.Swapping:  "#ff9e9e",
	deck.Sorted:    "#a6e3a1",
}

var inkColor = map[deck.Color]string{
	deck.Red:   "#c0392b",
	deck.Black: "#1e1e1e",
}

// DeckToSVG draws the cards left to right, filled by highlight and inked by suit color.
func DeckToSVG(cards []deck.CardView, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	if cardWidth <= 0 {
		cardWidth = 60
	}
	cardHeight := cardWidth * 3 / 2
	gap := cardWidth / 6
	width := len(cards)*(cardWidth+gap) + gap
	height := cardHeight + 2*gap

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a5c36"/>
`, width, height, width, height))

	for i, c := range cards {
		x := gap + i*(cardWidth+gap)
		fill := highlightFill[c.Highlight]
		ink := inkColor[c.Color]
		if ink == "" {
			ink = inkColor[deck.Black]
		}
		sb.WriteString(fmt.Sprintf(`<g class="card %s">
<rect x="%d" y="%d" width="%d" height="%d" rx="6" fill="%s" stroke="#333"/>
<text x="%d" y="%d" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="%s">%s</text>
</g>
`, c.Highlight, x, gap, cardWidth, cardHeight, fill,
			x+cardWidth/2, gap+cardHeight/2+cardWidth/6, cardWidth/2, ink, html.EscapeString(c.Value)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type Point struct{ X, Y float64 }

// TraceToSVG plots cumulative cost against step number.
func TraceToSVG(frames []trace.Frame, width, height int, strokeColor string) string {
	costs := trace.Costs(frames)
	points := make([]Point, len(frames))
	for i, f := range frames {
		points[i] = Point{X: float64(f.Step), Y: costs[i]}
	}
	return LineToSVG(points, width, height, strokeColor)
}

// LineToSVG creates an SVG polyline scaled to fit the points.
func LineToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
