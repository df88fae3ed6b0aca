package rle

import (
	"strconv"
	"strings"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
)

// COCORLE is the compact string packing of an RLE's run-length sequence used
// by the COCO dataset format: the first three run lengths are written as
// they are, and every later one is delta-coded against the count two
// positions back (d = cᵢ − cᵢ₋₂ for i ≥ 3); each value is then split into
// 5-bit groups least-significant-first. Each group occupies the low 5
// bits of a character; the next-highest bit is a continuation flag, and the
// sign of the (possibly negative) delta is carried through the two's
// complement shift of the remaining value rather than stored separately.
// Every resulting byte is offset by the printable-range base of 48 ('0')
// before being emitted as a character.
type COCORLE struct {
	Size   geo.Size
	Counts string
}

// Pack converts an RLE's counts into their COCO_RLE string form.
func Pack(r RLE) COCORLE {
	return COCORLE{Size: r.Size, Counts: PackCounts(r.Counts)}
}

// Unpack converts a COCO_RLE string back into run-length counts. It fails
// with *cocoerr.InvalidCOCORLEError if the string's final decoded sum does
// not equal h*w.
func Unpack(c COCORLE) (RLE, error) {
	counts, err := UnpackCounts(c.Counts)
	if err != nil {
		return RLE{}, err
	}

	var sum uint64
	for _, v := range counts {
		sum += uint64(v)
	}
	if want := uint64(c.Size.Pixels()); sum != want {
		return RLE{}, &cocoerr.InvalidCOCORLEError{
			Reason: "decoded counts sum to " + strconv.FormatUint(sum, 10) + ", expected " + strconv.FormatUint(want, 10),
		}
	}

	return RLE{Size: c.Size, Counts: counts}, nil
}

// PackCounts encodes a sequence of run lengths into the COCO_RLE character
// alphabet, bit-exact with the reference implementation.
func PackCounts(counts []uint32) string {
	var sb strings.Builder
	sb.Grow(len(counts) * 2)

	for i, cnt := range counts {
		x := int64(cnt)
		if i > 2 {
			x -= int64(counts[i-2])
		}

		more := true
		for more {
			group := byte(x & 0x1f)
			x >>= 5
			if group&0x10 != 0 {
				more = x != -1
			} else {
				more = x != 0
			}
			if more {
				group |= 0x20
			}
			sb.WriteByte(group + 48)
		}
	}

	return sb.String()
}

// UnpackCounts reverses PackCounts, reconstructing absolute run lengths via
// cᵢ = d + cᵢ₋₂ for i ≥ 3 (the first three values are taken as they are).
// It does not itself validate the sum against any size; use
// Unpack for that.
func UnpackCounts(s string) ([]uint32, error) {
	counts := make([]uint32, 0, len(s)/2+1)

	p := 0
	for p < len(s) {
		var x int64
		k := uint(0)
		more := true
		for more {
			if p >= len(s) {
				return nil, &cocoerr.InvalidCOCORLEError{Reason: "truncated group"}
			}
			c := int64(s[p]) - 48
			if c < 0 || c > 0x3f {
				return nil, &cocoerr.InvalidCOCORLEError{Reason: "character out of range"}
			}
			x |= (c & 0x1f) << (5 * k)
			more = c&0x20 != 0
			p++
			k++
			if !more && c&0x10 != 0 {
				x |= int64(-1) << (5 * k)
			}
		}

		if len(counts) > 2 {
			x += int64(counts[len(counts)-2])
		}
		if x < 0 {
			return nil, &cocoerr.InvalidCOCORLEError{Reason: "negative run length"}
		}
		counts = append(counts, uint32(x))
	}

	return counts, nil
}

