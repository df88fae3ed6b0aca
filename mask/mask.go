// Package mask ties the geometry primitives (geo), RLE codec (rle), and
// polygon rasteriser (raster) packages together behind a single tagged
// union of the four COCO segmentation representations, with the
// conversions and measures (area, bounding box) that operate over it.
//
// The canonical conversion path for any pair of variants is
// source → Dense bitmap → target; direct shortcuts are used only where they
// are provably byte-identical to that path (see Convert).
package mask

import (
	"fmt"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
	"github.com/hoel-bagard/cocotools-go/raster"
	"github.com/hoel-bagard/cocotools-go/rle"
)

// Variant identifies one of the four segmentation representations.
type Variant int

const (
	VariantPolygons Variant = iota
	VariantPolygonsRS
	VariantRLE
	VariantCOCORLE
)

func (v Variant) String() string {
	switch v {
	case VariantPolygons:
		return "Polygons"
	case VariantPolygonsRS:
		return "PolygonsRS"
	case VariantRLE:
		return "RLE"
	case VariantCOCORLE:
		return "COCO_RLE"
	default:
		return "Unknown"
	}
}

// Segmentation is the tagged union of the four segmentation
// representations. It is implemented by exactly Polygons, PolygonsRS, RLE,
// and COCORLE; the unexported marker method keeps it closed so every
// dispatch in this package can be an exhaustive type switch, per the
// design note in spec favoring an explicit sum type over a capability
// interface — the conversion matrix depends on *pairs* of concrete
// variants, which a single shared interface method cannot express.
type Segmentation interface {
	segmentation()
	Variant() Variant
}

// Polygons is one or more closed rings of (x, y) vertices, each a flat
// [x0,y0,x1,y1,...] slice (the last vertex joins back to the first without
// being repeated), interpreted in image coordinates. It carries no
// size: rasterising it requires an externally supplied geo.Size.
type Polygons struct {
	Rings [][]float64
}

func (Polygons) segmentation()    {}
func (Polygons) Variant() Variant { return VariantPolygons }
func (p Polygons) String() string {
	return fmt.Sprintf("Polygons(%s)", formatRings(p.Rings))
}

// PolygonsRS is Polygons plus its own target raster Size — self-contained.
type PolygonsRS struct {
	Size  geo.Size
	Rings [][]float64
}

func (PolygonsRS) segmentation()    {}
func (PolygonsRS) Variant() Variant { return VariantPolygonsRS }
func (p PolygonsRS) String() string {
	return fmt.Sprintf("PolygonsRS(size=[%d, %d], counts=%s)", p.Size.H, p.Size.W, formatRings(p.Rings))
}

// formatRings renders a ring list in the reference implementation's Python
// repr layout: comma-separated floats nested in brackets, e.g.
// "[[1, 2, 3, 4]]", rather than Go's default space-separated %v. Each float
// uses Go's %v form, so whole numbers carry no ".0".
func formatRings(rings [][]float64) string {
	var sb []byte
	sb = append(sb, '[')
	for i, ring := range rings {
		if i > 0 {
			sb = append(sb, ", "...)
		}
		sb = append(sb, '[')
		for j, v := range ring {
			if j > 0 {
				sb = append(sb, ", "...)
			}
			sb = append(sb, fmt.Sprintf("%v", v)...)
		}
		sb = append(sb, ']')
	}
	sb = append(sb, ']')
	return string(sb)
}

// RLE is the uncompressed run-length segmentation variant: alternating
// 0/1 run lengths, column-major, starting with 0. It has the same shape as
// rle.RLE and converts to/from it with a plain type conversion.
type RLE rle.RLE

func (RLE) segmentation()    {}
func (RLE) Variant() Variant { return VariantRLE }
func (r RLE) String() string {
	return fmt.Sprintf("RLE(size=[%d, %d], counts=%v)", r.Size.H, r.Size.W, r.Counts)
}

// COCORLE is the compact string-packed run-length segmentation variant. It
// has the same shape as rle.COCORLE and converts to/from it with a plain
// type conversion.
type COCORLE rle.COCORLE

func (COCORLE) segmentation()    {}
func (COCORLE) Variant() Variant { return VariantCOCORLE }
func (c COCORLE) String() string {
	return fmt.Sprintf("COCORLE(size=[%d, %d], counts=%q)", c.Size.H, c.Size.W, c.Counts)
}

// Decode converts any segmentation variant to its canonical dense bitmap.
// size is required (non-nil) only when s is a bare Polygons value; it is
// ignored for the other three variants, which carry their own size.
func Decode(s Segmentation, size *geo.Size) (geo.Bitmap, error) {
	switch v := s.(type) {
	case RLE:
		return rle.Decode(rle.RLE(v))
	case COCORLE:
		r, err := rle.Unpack(rle.COCORLE(v))
		if err != nil {
			return geo.Bitmap{}, err
		}
		return rle.Decode(r)
	case PolygonsRS:
		return raster.Rasterize(v.Rings, v.Size, raster.Options{})
	case Polygons:
		if size == nil {
			return geo.Bitmap{}, &cocoerr.MissingSizeError{}
		}
		return raster.Rasterize(v.Rings, *size, raster.Options{})
	default:
		return geo.Bitmap{}, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

// Area returns the number of 1-pixels in s. For RLE and COCORLE this never
// decodes: it sums the run lengths at odd positions directly. For
// PolygonsRS and Polygons it rasterises and counts — matching the
// reference implementation, this is the rasterised pixel count, not the
// polygon's geometric (shoelace) area.
func Area(s Segmentation, size *geo.Size) (int, error) {
	switch v := s.(type) {
	case RLE:
		return rle.Area(v.Counts), nil
	case COCORLE:
		r, err := rle.Unpack(rle.COCORLE(v))
		if err != nil {
			return 0, err
		}
		return rle.Area(r.Counts), nil
	case PolygonsRS:
		b, err := raster.Rasterize(v.Rings, v.Size, raster.Options{})
		if err != nil {
			return 0, err
		}
		return b.Popcount(), nil
	case Polygons:
		if size == nil {
			return 0, &cocoerr.MissingSizeError{}
		}
		b, err := raster.Rasterize(v.Rings, *size, raster.Options{})
		if err != nil {
			return 0, err
		}
		return b.Popcount(), nil
	default:
		return 0, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

// BBoxOf returns the tightest axis-aligned box enclosing s's 1-pixels.
//
// For the polygon variants this is the min/max over vertex coordinates
// (NOT the rasterised mask's extent — these differ for polygons that
// extend off-canvas) and never needs size. For RLE/COCORLE it is computed
// by scanning runs, tracking the min/max row and column of any 1-pixel,
// without a full decode.
func BBoxOf(s Segmentation, size *geo.Size) (geo.BBox, error) {
	switch v := s.(type) {
	case RLE:
		return rle.BBox(v.Counts, v.Size), nil
	case COCORLE:
		r, err := rle.Unpack(rle.COCORLE(v))
		if err != nil {
			return geo.BBox{}, err
		}
		return rle.BBox(r.Counts, r.Size), nil
	case PolygonsRS:
		return raster.VertexBBox(v.Rings), nil
	case Polygons:
		return raster.VertexBBox(v.Rings), nil
	default:
		return geo.BBox{}, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}
