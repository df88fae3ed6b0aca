// Package rle implements the uncompressed run-length encoding of a dense
// bitmap and the COCO_RLE variable-length string packing of that encoding.
//
// Both are column-major: a run boundary coincides with a change of pixel
// value as the bitmap is walked column by column, top to bottom within each
// column, starting with the (possibly empty) run of 0-pixels.
package rle

import (
	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
)

// RLE is the uncompressed run-length encoding of a bitmap: alternating run
// lengths of 0s then 1s, column-major, always starting with a 0-run (which
// may have length 0 if the bitmap's first pixel is a 1).
type RLE struct {
	Size   geo.Size
	Counts []uint32
}

// Decode concatenates RLE's alternating runs into a dense bitmap. It fails
// with *cocoerr.InvalidRLEError if the counts don't sum to h*w.
func Decode(r RLE) (geo.Bitmap, error) {
	total := r.Size.Pixels()

	var sum uint64
	for _, c := range r.Counts {
		sum += uint64(c)
	}
	if sum != uint64(total) {
		return geo.Bitmap{}, &cocoerr.InvalidRLEError{Sum: sum, Expected: uint64(total)}
	}

	b := geo.NewBitmap(r.Size)
	pos := 0
	val := byte(0)
	for _, c := range r.Counts {
		if val == 1 {
			for i := 0; i < int(c); i++ {
				b.Pix[pos+i] = 1
			}
		}
		pos += int(c)
		val ^= 1
	}
	return b, nil
}

// Encode scans a column-major bitmap and emits alternating run lengths,
// always starting with the 0-run length (0 if the bitmap starts with a
// 1-pixel), per the contract in package doc.
func Encode(b geo.Bitmap) RLE {
	counts := make([]uint32, 0, 8)
	n := len(b.Pix)

	cur := byte(0)
	run := uint32(0)
	for i := 0; i < n; i++ {
		if b.Pix[i] == cur {
			run++
			continue
		}
		counts = append(counts, run)
		cur = b.Pix[i]
		run = 1
	}
	counts = append(counts, run)

	return RLE{Size: b.Size, Counts: counts}
}

// Area returns the number of 1-pixels encoded by counts, without decoding:
// the sum of the run lengths at odd positions (0-indexed), since runs
// alternate starting with a 0-run.
func Area(counts []uint32) int {
	area := 0
	for i := 1; i < len(counts); i += 2 {
		area += int(counts[i])
	}
	return area
}

// BBox returns the tightest integer-valued bounding box enclosing the
// 1-pixels described by counts at the given size, without fully decoding to
// a bitmap. Returns geo.BBox{} for an empty (all-zero) mask.
//
// Matches the pinned convention: width = maxCol - minCol, height = maxRow -
// minRow (not +1) — see the worked example in package mask.
func BBox(counts []uint32, size geo.Size) geo.BBox {
	h := size.H
	pos := 0
	val := byte(0)

	minRow, maxRow, minCol, maxCol := -1, -1, -1, -1

	for _, c := range counts {
		if val == 1 {
			for i := 0; i < int(c); i++ {
				p := pos + i
				row, col := p%h, p/h
				if minCol == -1 || col < minCol {
					minCol = col
				}
				if maxCol == -1 || col > maxCol {
					maxCol = col
				}
				if minRow == -1 || row < minRow {
					minRow = row
				}
				if maxRow == -1 || row > maxRow {
					maxRow = row
				}
			}
		}
		pos += int(c)
		val ^= 1
	}

	if minCol == -1 {
		return geo.BBox{}
	}
	return geo.BBox{
		Left:   float64(minCol),
		Top:    float64(minRow),
		Width:  float64(maxCol - minCol),
		Height: float64(maxRow - minRow),
	}
}
