package main

import (
	"fmt"
	"time"

	"github.com/daviddao/ecgmon/internal/render"
	"github.com/daviddao/ecgmon/internal/theme"
)

type hospital struct {
	Name       string
	DistanceKM float64
	Drive      time.Duration
}

func (h hospital) String() string {
	return fmt.Sprintf("%s (%.1f km, %d min)", h.Name, h.DistanceKM, int(h.Drive.Minutes()))
}

var nearby = []hospital{
	{Name: "City Hospital", DistanceKM: 2.3, Drive: 8 * time.Minute},
}

// distanceFilters are the radius choices of the map header. Zero means any.
var distanceFilters = []float64{0, 1, 5, 10}

func distanceLabel(i int) string {
	if distanceFilters[i] == 0 {
		return "Any distance"
	}
	return fmt.Sprintf("Within %g km", distanceFilters[i])
}

// visibleHospitals returns the hospitals inside the selected radius.
func visibleHospitals(filter int) []hospital {
	limit := distanceFilters[filter]
	var out []hospital
	for _, h := range nearby {
		if limit == 0 || h.DistanceKM <= limit {
			out = append(out, h)
		}
	}
	return out
}

// Map geometry as fractions of the surface.
var (
	mapHere     = [2]float64{0.2, 0.8}
	mapControl  = [2]float64{0.4, 0.6}
	mapHospital = [2]float64{0.6, 0.4}
)

const (
	mainStreetWidth = 2
	sideStreetWidth = 1
	routeWidth      = 1
	routeDashes     = 12

	fallbackRoute = "#3b82f6"
)

// drawHospitalMap paints the street grid, the route and both markers. It
// reports false when the surface has no area.
func drawHospitalMap(s render.Surface, r theme.Resolver) bool {
	render.Layout(s)
	w, h := s.DisplaySize()
	if w <= 0 || h <= 0 {
		return false
	}

	grid := theme.ResolveColor(r, theme.FallbackGrid, theme.TokenMutedForeground, theme.TokenForeground)
	route := theme.ResolveColor(r, fallbackRoute, theme.TokenPrimary)
	marker := theme.ResolveColor(r, theme.FallbackDestructive, theme.TokenDestructive)

	s.SetShadow(nil, 0)
	s.Clear(0, 0, w, h)

	s.SetStrokeColor(theme.WithAlpha(grid, 0.6))
	s.SetLineWidth(mainStreetWidth)
	strokeLine(s, 0, h*0.3, w, h*0.3)
	strokeLine(s, w*0.4, 0, w*0.4, h)
	strokeLine(s, 0, h*0.7, w, h*0.7)

	s.SetStrokeColor(theme.WithAlpha(grid, 0.3))
	s.SetLineWidth(sideStreetWidth)
	for k := 0; k < 5; k++ {
		x := w * (0.1 + 0.2*float64(k))
		strokeLine(s, x, 0, x, h)
	}

	s.SetStrokeColor(theme.WithAlpha(route, 1))
	s.SetLineWidth(routeWidth)
	dashedCurve(s,
		w*mapHere[0], h*mapHere[1],
		w*mapControl[0], h*mapControl[1],
		w*mapHospital[0], h*mapHospital[1],
	)

	s.SetFont("bold")
	s.SetTextAlign(render.AlignCenter)
	s.SetTextBaseline(render.BaselineMiddle)
	s.SetFillColor(theme.WithAlpha(route, 1))
	s.FillText("●", w*mapHere[0], h*mapHere[1])
	s.SetFillColor(theme.WithAlpha(marker, 1))
	s.FillText("H", w*mapHospital[0], h*mapHospital[1])
	return true
}

func strokeLine(s render.Surface, x0, y0, x1, y1 float64) {
	s.BeginPath()
	s.MoveTo(x0, y0)
	s.LineTo(x1, y1)
	s.Stroke()
}

// dashedCurve strokes a quadratic curve as routeDashes pieces, leaving every
// third one out.
func dashedCurve(s render.Surface, x0, y0, cx, cy, x1, y1 float64) {
	at := func(t float64) (float64, float64) {
		u := 1 - t
		return u*u*x0 + 2*u*t*cx + t*t*x1, u*u*y0 + 2*u*t*cy + t*t*y1
	}
	s.BeginPath()
	for k := 0; k < routeDashes; k++ {
		if k%3 == 2 {
			continue
		}
		ax, ay := at(float64(k) / routeDashes)
		bx, by := at(float64(k+1) / routeDashes)
		s.MoveTo(ax, ay)
		s.LineTo(bx, by)
	}
	s.Stroke()
}
