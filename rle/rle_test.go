package rle

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/hoel-bagard/cocotools-go/geo"
)

func TestDecode7x7(t *testing.T) {
	r := RLE{Size: geo.Size{H: 7, W: 7}, Counts: []uint32{15, 5, 2, 5, 2, 5, 15}}
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := [][]byte{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
	}
	for row := 0; row < 7; row++ {
		for col := 0; col < 7; col++ {
			if got := b.At(row, col); got != want[row][col] {
				t.Errorf("At(%d,%d) = %d, want %d", row, col, got, want[row][col])
			}
		}
	}
}

func TestDecodeInvalidSum(t *testing.T) {
	r := RLE{Size: geo.Size{H: 4, W: 4}, Counts: []uint32{5, 2, 2, 2, 6}}
	if _, err := Decode(r); err == nil {
		t.Fatal("expected InvalidRLE error for mismatched sum")
	}
}

func TestEncodeStartsWithZeroRun(t *testing.T) {
	b := geo.NewBitmap(geo.Size{H: 2, W: 1})
	b.Pix[0] = 1
	b.Pix[1] = 1
	got := Encode(b)
	want := []uint32{0, 2}
	if !reflect.DeepEqual(got.Counts, want) {
		t.Errorf("Encode = %v, want %v", got.Counts, want)
	}
}

func TestAreaOddCounts(t *testing.T) {
	if got := Area([]uint32{15, 5, 2, 5, 2, 5, 15}); got != 15 {
		t.Errorf("Area = %d, want 15", got)
	}
	if got := Area([]uint32{}); got != 0 {
		t.Errorf("Area(empty) = %d, want 0", got)
	}
}

func TestBBoxScenario1(t *testing.T) {
	got := BBox([]uint32{15, 5, 2, 5, 2, 5, 15}, geo.Size{H: 7, W: 7})
	want := geo.BBox{Left: 2, Top: 1, Width: 2, Height: 4}
	if got != want {
		t.Errorf("BBox = %v, want %v", got, want)
	}
}

func TestBBoxEmpty(t *testing.T) {
	got := BBox([]uint32{49}, geo.Size{H: 7, W: 7})
	if got != (geo.BBox{}) {
		t.Errorf("BBox(empty) = %v, want zero value", got)
	}
}

// TestRoundTripDecodeEncode checks decode(encode(b)) == b for generated
// bitmaps.
func TestRoundTripDecodeEncode(t *testing.T) {
	f := func(seed uint16, h, w uint8) bool {
		size := geo.Size{H: int(h%12) + 1, W: int(w%12) + 1}
		b := geo.NewBitmap(size)
		state := uint32(seed)
		for i := range b.Pix {
			state = state*1103515245 + 12345
			b.Pix[i] = byte((state >> 8) & 1)
		}

		r := Encode(b)
		back, err := Decode(r)
		if err != nil {
			t.Logf("decode error: %v", err)
			return false
		}
		return reflect.DeepEqual(back.Pix, b.Pix) && back.Size == b.Size
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

// TestRoundTripEncodeDecode checks encode(decode(r)) == r for a correctly
// checksummed RLE.
func TestRoundTripEncodeDecode(t *testing.T) {
	r := RLE{Size: geo.Size{H: 4, W: 4}, Counts: []uint32{5, 2, 2, 2, 5}}
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	back := Encode(b)
	if !reflect.DeepEqual(back.Counts, r.Counts) {
		t.Errorf("Encode(Decode(r)) = %v, want %v", back.Counts, r.Counts)
	}
}
