package raster

import (
	"testing"

	"github.com/hoel-bagard/cocotools-go/geo"
)

func TestRasterizeFullSquare(t *testing.T) {
	// A ring covering the entire 4x4 canvas should fill every pixel.
	ring := []float64{0, 0, 4, 0, 4, 4, 0, 4}
	b, err := Rasterize([][]float64{ring}, geo.Size{H: 4, W: 4}, Options{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := b.Popcount(); got != 16 {
		t.Errorf("Popcount = %d, want 16", got)
	}
}

func TestRasterizeHalfSquare(t *testing.T) {
	// A ring covering the left half (columns 0-1) of a 4x4 canvas.
	ring := []float64{0, 0, 2, 0, 2, 4, 0, 4}
	b, err := Rasterize([][]float64{ring}, geo.Size{H: 4, W: 4}, Options{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := b.Popcount(); got != 8 {
		t.Errorf("Popcount = %d, want 8", got)
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 2; col++ {
			if b.At(row, col) != 1 {
				t.Errorf("At(%d,%d) = 0, want 1", row, col)
			}
		}
		for col := 2; col < 4; col++ {
			if b.At(row, col) != 0 {
				t.Errorf("At(%d,%d) = 1, want 0", row, col)
			}
		}
	}
}

func TestRasterizeTwoRingsXOR(t *testing.T) {
	// Two identical overlapping rings XOR to nothing: an even number of
	// rings covering a pixel leaves it unset.
	ring := []float64{0, 0, 4, 0, 4, 4, 0, 4}
	b, err := Rasterize([][]float64{ring, ring}, geo.Size{H: 4, W: 4}, Options{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := b.Popcount(); got != 0 {
		t.Errorf("Popcount = %d, want 0 (XOR of two identical rings)", got)
	}
}

func TestRasterizeClipsOutOfBounds(t *testing.T) {
	// Ring extends past the canvas on every side; fill must clip to size.
	ring := []float64{-10, -10, 10, -10, 10, 10, -10, 10}
	b, err := Rasterize([][]float64{ring}, geo.Size{H: 4, W: 4}, Options{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := b.Popcount(); got != 16 {
		t.Errorf("Popcount = %d, want 16 (clipped to canvas)", got)
	}
}

func TestRasterizeOddCoordinateListFails(t *testing.T) {
	ring := []float64{0, 0, 1}
	if _, err := Rasterize([][]float64{ring}, geo.Size{H: 2, W: 2}, Options{}); err == nil {
		t.Fatal("expected InvalidPolygon error for odd-length coordinate list")
	}
}

func TestVertexBBox(t *testing.T) {
	rings := [][]float64{{2.0, 1.0, 2.0, 5.0, 4.0, 5.0, 4.0, 1.0}}
	got := VertexBBox(rings)
	want := geo.BBox{Left: 2, Top: 1, Width: 2, Height: 4}
	if got != want {
		t.Errorf("VertexBBox = %v, want %v", got, want)
	}
}

func TestVertexBBoxEmpty(t *testing.T) {
	if got := VertexBBox(nil); got != (geo.BBox{}) {
		t.Errorf("VertexBBox(nil) = %v, want zero value", got)
	}
}
