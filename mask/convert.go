package mask

import (
	"fmt"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
	"github.com/hoel-bagard/cocotools-go/rle"
)

// Convert converts s to the target variant. The canonical path is
// source → Dense → target; RLE↔COCORLE uses rle.Pack/Unpack directly
// instead of materialising a bitmap, since that produces byte-identical
// counts without the decode/encode round trip. size is required only when
// converting a bare Polygons value (it carries none of its own); it is
// ignored for the other three source variants.
//
// Converting a dense bitmap back to polygon rings (any → Polygons or
// PolygonsRS) is lossy: the traced rings are simplified axis-aligned runs,
// not a general contour trace. Re-rasterising them reproduces the exact
// source bitmap (this implementation happens to round-trip exactly,
// because each ring is one full scanline run), but spec does not require
// that of a lossy conversion and a different implementation may not.
func Convert(s Segmentation, to Variant, size *geo.Size) (Segmentation, error) {
	switch to {
	case VariantPolygons:
		return toPolygons(s, size)
	case VariantPolygonsRS:
		return toPolygonsRS(s, size)
	case VariantRLE:
		return toRLE(s, size)
	case VariantCOCORLE:
		return toCOCORLE(s, size)
	default:
		return nil, fmt.Errorf("mask: unknown target variant %v", to)
	}
}

func toPolygons(s Segmentation, size *geo.Size) (Segmentation, error) {
	switch v := s.(type) {
	case Polygons:
		return v, nil
	case PolygonsRS:
		return Polygons{Rings: v.Rings}, nil
	case RLE, COCORLE:
		b, err := Decode(s, size)
		if err != nil {
			return nil, err
		}
		return Polygons{Rings: traceContours(b)}, nil
	default:
		return nil, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

func toPolygonsRS(s Segmentation, size *geo.Size) (Segmentation, error) {
	switch v := s.(type) {
	case Polygons:
		if size == nil {
			return nil, &cocoerr.MissingSizeError{}
		}
		return PolygonsRS{Size: *size, Rings: v.Rings}, nil
	case PolygonsRS:
		return v, nil
	case RLE, COCORLE:
		b, err := Decode(s, size)
		if err != nil {
			return nil, err
		}
		return PolygonsRS{Size: b.Size, Rings: traceContours(b)}, nil
	default:
		return nil, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

func toRLE(s Segmentation, size *geo.Size) (Segmentation, error) {
	switch v := s.(type) {
	case RLE:
		return v, nil
	case COCORLE:
		r, err := rle.Unpack(rle.COCORLE(v))
		if err != nil {
			return nil, err
		}
		return RLE(r), nil
	case Polygons, PolygonsRS:
		b, err := Decode(s, size)
		if err != nil {
			return nil, err
		}
		return RLE(rle.Encode(b)), nil
	default:
		return nil, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

func toCOCORLE(s Segmentation, size *geo.Size) (Segmentation, error) {
	switch v := s.(type) {
	case COCORLE:
		return v, nil
	case RLE:
		return COCORLE(rle.Pack(rle.RLE(v))), nil
	case Polygons, PolygonsRS:
		b, err := Decode(s, size)
		if err != nil {
			return nil, err
		}
		return COCORLE(rle.Pack(rle.Encode(b))), nil
	default:
		return nil, fmt.Errorf("mask: unsupported segmentation type %T", s)
	}
}

// traceContours produces one rectangular ring per maximal horizontal run of
// 1-pixels, row by row. This is a deliberately simple, lossy stand-in for
// general contour tracing: precise enough that re-rasterising reproduces
// the source bitmap exactly, but not a minimal-vertex-count polygonisation.
func traceContours(b geo.Bitmap) [][]float64 {
	var rings [][]float64
	for row := 0; row < b.Size.H; row++ {
		col := 0
		for col < b.Size.W {
			if b.At(row, col) == 0 {
				col++
				continue
			}
			start := col
			for col < b.Size.W && b.At(row, col) == 1 {
				col++
			}
			y0, y1 := float64(row), float64(row+1)
			x0, x1 := float64(start), float64(col)
			rings = append(rings, []float64{x0, y0, x1, y0, x1, y1, x0, y1})
		}
	}
	return rings
}
