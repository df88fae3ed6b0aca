package coco

import (
	"github.com/dhconnelly/rtreego"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
)

// indices holds the three reverse maps and the per-image annotation order
// built from a parsed document in a single pass.
type indices struct {
	imgsByID    map[int64]Image
	catsByID    map[int64]Category
	annsByID    map[int64]Annotation
	annsByImage map[int64][]Annotation
	bboxIndex   *BBoxIndex
}

// buildIndices builds the reverse maps and spatial index from a parsed
// document, failing DanglingReference if any annotation names an image or
// category id absent from the document's own collections.
func buildIndices(doc *document) (*indices, error) {
	imgsByID := make(map[int64]Image, len(doc.images))
	for _, img := range doc.images {
		imgsByID[img.ID] = img
	}

	catsByID := make(map[int64]Category, len(doc.categories))
	for _, cat := range doc.categories {
		catsByID[cat.ID] = cat
	}

	annsByID := make(map[int64]Annotation, len(doc.annotations))
	annsByImage := make(map[int64][]Annotation, len(doc.images))
	bboxEntries := make([]rtreego.Spatial, 0, len(doc.annotations))

	for _, ann := range doc.annotations {
		if _, ok := imgsByID[ann.ImageID]; !ok {
			return nil, &cocoerr.DanglingReferenceError{AnnotationID: ann.ID, Kind: "image", ReferencedID: ann.ImageID}
		}
		if _, ok := catsByID[ann.CategoryID]; !ok {
			return nil, &cocoerr.DanglingReferenceError{AnnotationID: ann.ID, Kind: "category", ReferencedID: ann.CategoryID}
		}
		annsByID[ann.ID] = ann
		annsByImage[ann.ImageID] = append(annsByImage[ann.ImageID], ann)
		bboxEntries = append(bboxEntries, bboxEntry{ann: ann})
	}

	bboxIndex := newBBoxIndex(bboxEntries)

	return &indices{
		imgsByID:    imgsByID,
		catsByID:    catsByID,
		annsByID:    annsByID,
		annsByImage: annsByImage,
		bboxIndex:   bboxIndex,
	}, nil
}

// bboxEntry adapts an Annotation's BBox to rtreego.Spatial.
type bboxEntry struct {
	ann Annotation
}

func (e bboxEntry) Bounds() rtreego.Rect {
	b := e.ann.BBox
	width, height := b.Width, b.Height
	// rtreego requires strictly positive side lengths; degenerate
	// (zero-area) boxes are nudged open so they still index.
	if width <= 0 {
		width = 1e-9
	}
	if height <= 0 {
		height = 1e-9
	}
	point := rtreego.Point{b.Left, b.Top}
	rect, _ := rtreego.NewRect(point, []float64{width, height})
	return rect
}

// BBoxIndex is an R-tree spatial index over annotation bounding boxes,
// giving O(log n) spatial lookups alongside the plain id-keyed reverse maps.
type BBoxIndex struct {
	rtree *rtreego.Rtree
}

func newBBoxIndex(entries []rtreego.Spatial) *BBoxIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for _, e := range entries {
		rtree.Insert(e)
	}
	return &BBoxIndex{rtree: rtree}
}

// QueryAnnsInBBox returns every annotation whose bounding box intersects the
// query box (left, top, width, height in image coordinates).
func (idx *BBoxIndex) QueryAnnsInBBox(left, top, width, height float64) []Annotation {
	if width <= 0 {
		width = 1e-9
	}
	if height <= 0 {
		height = 1e-9
	}
	point := rtreego.Point{left, top}
	rect, err := rtreego.NewRect(point, []float64{width, height})
	if err != nil {
		return nil
	}

	var out []Annotation
	for _, spatial := range idx.rtree.SearchIntersect(rect) {
		out = append(out, spatial.(bboxEntry).ann)
	}
	return out
}

// QueryAnnsInRadius returns every annotation whose bounding box intersects
// the square window of the given radius centered on (x, y).
func (idx *BBoxIndex) QueryAnnsInRadius(x, y, radius float64) []Annotation {
	return idx.QueryAnnsInBBox(x-radius, y-radius, 2*radius, 2*radius)
}
