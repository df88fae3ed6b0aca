// Package coco parses a COCO-format annotation document and exposes it as an
// immutable, indexed Dataset.
package coco

import (
	"encoding/json"
	"fmt"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/geo"
	"github.com/hoel-bagard/cocotools-go/mask"
)

// Image is one entry of the document's "images" collection. Only the fields
// below are modeled; unknown per-image fields are dropped rather than
// round-tripped.
type Image struct {
	ID       int64
	Width    int
	Height   int
	FileName string
}

func (i Image) String() string {
	return fmt.Sprintf("Image(id=%d, width='%d', height='%d', file_name='%s')", i.ID, i.Width, i.Height, i.FileName)
}

// Category is one entry of the document's "categories" collection.
type Category struct {
	ID            int64
	Name          string
	Supercategory string
}

func (c Category) String() string {
	return fmt.Sprintf("Category(id=%d, name='%s', supercategory='%s')", c.ID, c.Name, c.Supercategory)
}

// Annotation is one entry of the document's "annotations" collection.
// Area and BBox are trusted as authored in the document; they are never
// recomputed from Segmentation.
type Annotation struct {
	ID           int64
	ImageID      int64
	CategoryID   int64
	Segmentation mask.Segmentation
	Area         float64
	BBox         geo.BBox
	IsCrowd      int
}

func (a Annotation) String() string {
	seg := "<nil>"
	if a.Segmentation != nil {
		seg = fmt.Sprint(a.Segmentation)
	}
	return fmt.Sprintf("Annotation(id=%d, image_id=%d, category_id=%d, segmentation=%s, area=%v, bbox=%v, iscrowd=%d)",
		a.ID, a.ImageID, a.CategoryID, seg, a.Area, a.BBox, a.IsCrowd)
}

// LoadOptions configures document parsing.
type LoadOptions struct {
	// StrictUnknownSegmentation: if true, an annotation whose segmentation
	// matches none of the three known JSON shapes fails the load. If false
	// (the default), the annotation is kept with a nil Segmentation and
	// surfaced via Dataset.UnclassifiedAnns.
	StrictUnknownSegmentation bool
}

// DefaultLoadOptions returns the permissive default: unknown segmentation
// shapes are tolerated rather than rejected.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{StrictUnknownSegmentation: false}
}

// rawDocument mirrors the on-disk JSON layout exactly; it is never exposed
// outside this file. info/licenses are kept as opaque json.RawMessage since
// nothing in this package interprets them.
type rawDocument struct {
	Images      []rawImage      `json:"images"`
	Annotations []rawAnnotation `json:"annotations"`
	Categories  []rawCategory   `json:"categories"`
	Licenses    json.RawMessage `json:"licenses,omitempty"`
	Info        json.RawMessage `json:"info,omitempty"`
}

type rawImage struct {
	ID       *int64 `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileName string `json:"file_name"`
}

type rawCategory struct {
	ID            *int64 `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

type rawAnnotation struct {
	ID           *int64          `json:"id"`
	ImageID      int64           `json:"image_id"`
	CategoryID   int64           `json:"category_id"`
	Segmentation json.RawMessage `json:"segmentation"`
	Area         float64         `json:"area"`
	BBox         [4]float64      `json:"bbox"`
	IsCrowd      *int            `json:"iscrowd"`
}

// rawSegObject distinguishes the two object-shaped segmentation encodings
// by reading counts as a json.RawMessage first and inspecting its
// leading byte: '[' means array (RLE), '"' means string (COCO_RLE).
type rawSegObject struct {
	Counts json.RawMessage `json:"counts"`
	Size   [2]int          `json:"size"`
}

// document holds the parsed, validated (but not yet indexed) collections.
type document struct {
	images       []Image
	annotations  []Annotation
	categories   []Category
	licenses     json.RawMessage
	info         json.RawMessage
	unclassified []int64
}

// parseDocument unmarshals raw JSON bytes into a document, classifying each
// annotation's segmentation and validating that every id is present and
// unique within its collection. It does not build the reverse indices or
// check dangling references; that is C6's job.
func parseDocument(data []byte, opts LoadOptions) (*document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &cocoerr.InvalidDocumentError{Reason: err.Error()}
	}
	switch {
	case raw.Images == nil:
		return nil, &cocoerr.InvalidDocumentError{Reason: `missing top-level key "images"`}
	case raw.Annotations == nil:
		return nil, &cocoerr.InvalidDocumentError{Reason: `missing top-level key "annotations"`}
	case raw.Categories == nil:
		return nil, &cocoerr.InvalidDocumentError{Reason: `missing top-level key "categories"`}
	}

	images, err := buildImages(raw.Images)
	if err != nil {
		return nil, err
	}
	categories, err := buildCategories(raw.Categories)
	if err != nil {
		return nil, err
	}
	annotations, unclassified, err := buildAnnotations(raw.Annotations, opts)
	if err != nil {
		return nil, err
	}

	return &document{
		images:       images,
		annotations:  annotations,
		categories:   categories,
		licenses:     raw.Licenses,
		info:         raw.Info,
		unclassified: unclassified,
	}, nil
}

func buildImages(raw []rawImage) ([]Image, error) {
	images := make([]Image, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, ri := range raw {
		if ri.ID == nil {
			return nil, &cocoerr.InvalidDocumentError{Reason: "image missing id"}
		}
		if seen[*ri.ID] {
			return nil, &cocoerr.DuplicateIDError{Kind: "image", ID: *ri.ID}
		}
		seen[*ri.ID] = true
		images = append(images, Image{ID: *ri.ID, Width: ri.Width, Height: ri.Height, FileName: ri.FileName})
	}
	return images, nil
}

func buildCategories(raw []rawCategory) ([]Category, error) {
	categories := make([]Category, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, rc := range raw {
		if rc.ID == nil {
			return nil, &cocoerr.InvalidDocumentError{Reason: "category missing id"}
		}
		if seen[*rc.ID] {
			return nil, &cocoerr.DuplicateIDError{Kind: "category", ID: *rc.ID}
		}
		seen[*rc.ID] = true
		categories = append(categories, Category{ID: *rc.ID, Name: rc.Name, Supercategory: rc.Supercategory})
	}
	return categories, nil
}

func buildAnnotations(raw []rawAnnotation, opts LoadOptions) ([]Annotation, []int64, error) {
	annotations := make([]Annotation, 0, len(raw))
	var unclassified []int64
	seen := make(map[int64]bool, len(raw))

	for _, ra := range raw {
		if ra.ID == nil {
			return nil, nil, &cocoerr.InvalidDocumentError{Reason: "annotation missing id"}
		}
		if seen[*ra.ID] {
			return nil, nil, &cocoerr.DuplicateIDError{Kind: "annotation", ID: *ra.ID}
		}
		seen[*ra.ID] = true

		seg, err := classifySegmentation(ra.Segmentation)
		if err != nil {
			if opts.StrictUnknownSegmentation {
				return nil, nil, err
			}
			unclassified = append(unclassified, *ra.ID)
			seg = nil
		}

		isCrowd := 0
		if ra.IsCrowd != nil {
			isCrowd = *ra.IsCrowd
		}

		annotations = append(annotations, Annotation{
			ID:           *ra.ID,
			ImageID:      ra.ImageID,
			CategoryID:   ra.CategoryID,
			Segmentation: seg,
			Area:         ra.Area,
			BBox:         geo.BBox{Left: ra.BBox[0], Top: ra.BBox[1], Width: ra.BBox[2], Height: ra.BBox[3]},
			IsCrowd:      isCrowd,
		})
	}

	return annotations, unclassified, nil
}

// classifySegmentation inspects the JSON shape of an annotation's
// "segmentation" field and dispatches to the matching variant:
// array-of-arrays → Polygons, object with array counts → RLE,
// object with string counts → COCO_RLE.
func classifySegmentation(raw json.RawMessage) (mask.Segmentation, error) {
	if len(raw) == 0 {
		return nil, &cocoerr.InvalidDocumentError{Reason: "annotation missing segmentation"}
	}

	trimmed := skipSpace(raw)
	if len(trimmed) == 0 {
		return nil, &cocoerr.InvalidDocumentError{Reason: "empty segmentation"}
	}

	switch trimmed[0] {
	case '[':
		var rings [][]float64
		if err := json.Unmarshal(raw, &rings); err != nil {
			return nil, &cocoerr.InvalidDocumentError{Reason: "segmentation array is not a ring list: " + err.Error()}
		}
		return mask.Polygons{Rings: rings}, nil
	case '{':
		var obj rawSegObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, &cocoerr.InvalidDocumentError{Reason: "segmentation object malformed: " + err.Error()}
		}
		size := geo.Size{H: obj.Size[0], W: obj.Size[1]}
		countsTrimmed := skipSpace(obj.Counts)
		if len(countsTrimmed) == 0 {
			return nil, &cocoerr.InvalidDocumentError{Reason: "segmentation object missing counts"}
		}
		switch countsTrimmed[0] {
		case '[':
			var counts []uint32
			if err := json.Unmarshal(obj.Counts, &counts); err != nil {
				return nil, &cocoerr.InvalidDocumentError{Reason: "RLE counts is not a number array: " + err.Error()}
			}
			return mask.RLE{Size: size, Counts: counts}, nil
		case '"':
			var s string
			if err := json.Unmarshal(obj.Counts, &s); err != nil {
				return nil, &cocoerr.InvalidDocumentError{Reason: "COCO_RLE counts is not a string: " + err.Error()}
			}
			return mask.COCORLE{Size: size, Counts: s}, nil
		default:
			return nil, &cocoerr.InvalidDocumentError{Reason: "segmentation counts has unrecognised shape"}
		}
	default:
		return nil, &cocoerr.InvalidDocumentError{Reason: "segmentation has unrecognised shape"}
	}
}

// imageSize converts an Image's width/height to the geo.Size an image's
// PolygonsRS or RLE-derived segmentation rasterises against.
func imageSize(img Image) geo.Size {
	return geo.Size{H: img.Height, W: img.Width}
}

func skipSpace(b []byte) []byte {
	i := 0
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return b[i:]
		}
	}
	return b[i:]
}
