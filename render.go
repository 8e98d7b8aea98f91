package momepy

import (
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	geos "github.com/twpayne/go-geos"
)

const renderSize = 1024

// DebugRender draws cells, streets and blocks to a PNG for eyeballing a
// run. Blocks are filled, cells outlined, streets drawn on top. Purely a
// debugging aid, the projection is a naive fit-to-image with a flipped y
// axis.
func DebugRender(fpath string, cells []*Cell, streets []*Street, blocks []*Block) error {
	geoms := []*geos.Geom{}
	for _, c := range cells {
		geoms = append(geoms, c.Geom)
	}
	for _, s := range streets {
		geoms = append(geoms, s.Geom)
	}
	for _, b := range blocks {
		geoms = append(geoms, b.Geom)
	}
	if len(geoms) == 0 {
		return errors.New("nothing to render")
	}

	first := geoms[0].Bounds()
	minX, minY, maxX, maxY := first.MinX, first.MinY, first.MaxX, first.MaxY
	for _, g := range geoms[1:] {
		b := g.Bounds()
		if b.MinX < minX {
			minX = b.MinX
		}
		if b.MinY < minY {
			minY = b.MinY
		}
		if b.MaxX > maxX {
			maxX = b.MaxX
		}
		if b.MaxY > maxY {
			maxY = b.MaxY
		}
	}

	spanX, spanY := maxX-minX, maxY-minY
	span := spanX
	if spanY > span {
		span = spanY
	}
	if span == 0 {
		span = 1
	}
	scale := float64(renderSize-40) / span

	px := func(x, y float64) (float64, float64) {
		// image y grows downward
		return 20 + (x-minX)*scale, float64(renderSize) - 20 - (y-minY)*scale
	}

	dc := gg.NewContext(renderSize, renderSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	trace := func(g *geos.Geom) {
		for _, p := range polygonParts(g) {
			ring := ringCoords(p)
			for i, v := range ring {
				x, y := px(v.X, v.Y)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			p.Destroy()
		}
	}

	for _, b := range blocks {
		trace(b.Geom)
		dc.SetRGBA(0.85, 0.88, 0.95, 1)
		dc.Fill()
	}
	for _, c := range cells {
		trace(c.Geom)
		dc.SetRGBA(0.5, 0.5, 0.5, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	for _, s := range streets {
		coords := lineCoords(s.Geom)
		for i, v := range coords {
			x, y := px(v.X, v.Y)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.SetRGBA(0.1, 0.1, 0.1, 1)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	return errors.Wrap(dc.SavePNG(fpath), "failed to save render")
}
