// Package raster rasterises polygon rings to the dense, column-major bitmap
// shared by the rest of the mask codec.
package raster

import (
	"math"
	"sort"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
)

// Options is a reserved extension point for future rasterisation
// parameters (e.g. anti-aliasing), following the same forward-compatible
// options-struct shape used elsewhere in this module: an exported struct
// with a zero value that behaves as today's only behavior, so new fields
// never break an existing call site.
type Options struct{}

// Rasterize fills a size.H x size.W bitmap from one or more closed polygon
// rings, each a flat [x0,y0,x1,y1,...] coordinate list in image space. A
// pixel is set iff its center lies inside an odd number of rings (rings are
// unioned by XOR, i.e. even-odd / odd-winding fill across every ring's
// edges together).
//
// The fill is a scanline algorithm: for each row r, every polygon edge is
// intersected against the horizontal line y = r+0.5, the crossings are
// sorted by x, and pixels are filled between successive pairs. Horizontal
// edges never contribute a crossing. Of an edge's two endpoints, the one
// with the smaller y is treated as included and the other as excluded, so
// that two rings sharing a vertex never double-count that row.
//
// Coordinates outside size are clipped to the bitmap's bounds. Rings may
// self-intersect.
func Rasterize(rings [][]float64, size geo.Size, _ Options) (geo.Bitmap, error) {
	for _, ring := range rings {
		if len(ring)%2 != 0 {
			return geo.Bitmap{}, &cocoerr.InvalidPolygonError{Len: len(ring)}
		}
	}

	b := geo.NewBitmap(size)
	var xs []float64

	for row := 0; row < size.H; row++ {
		yLine := float64(row) + 0.5
		xs = xs[:0]

		for _, ring := range rings {
			n := len(ring) / 2
			if n < 2 {
				continue
			}
			for i := 0; i < n; i++ {
				x0, y0 := ring[2*i], ring[2*i+1]
				j := (i + 1) % n
				x1, y1 := ring[2*j], ring[2*j+1]

				if y0 == y1 {
					continue
				}

				yLo, yHi, xLo, xHi := y0, y1, x0, x1
				if yLo > yHi {
					yLo, yHi = yHi, yLo
					xLo, xHi = xHi, xLo
				}
				if yLine < yLo || yLine >= yHi {
					continue
				}

				t := (yLine - yLo) / (yHi - yLo)
				xs = append(xs, xLo+t*(xHi-xLo))
			}
		}

		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			colStart := int(math.Ceil(xs[i] - 0.5))
			colEnd := int(math.Ceil(xs[i+1]-0.5)) - 1
			if colStart < 0 {
				colStart = 0
			}
			if colEnd > size.W-1 {
				colEnd = size.W - 1
			}
			for col := colStart; col <= colEnd; col++ {
				b.Set(row, col, 1)
			}
		}
	}

	return b, nil
}

// VertexBBox returns the bounding box of the min/max x and y coordinates
// across every ring's vertices, NOT the rasterised mask's extent — this is
// the convention spec'd for polygon bboxes. Returns geo.BBox{} when rings
// contains no vertices at all.
func VertexBBox(rings [][]float64) geo.BBox {
	first := true
	var minX, minY, maxX, maxY float64

	for _, ring := range rings {
		n := len(ring) / 2
		for i := 0; i < n; i++ {
			x, y := ring[2*i], ring[2*i+1]
			if first {
				minX, maxX, minY, maxY = x, x, y, y
				first = false
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if first {
		return geo.BBox{}
	}
	return geo.BBox{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
