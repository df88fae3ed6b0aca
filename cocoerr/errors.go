// Package cocoerr defines the typed error values the mask codec and dataset
// packages return, so callers can discriminate failure kinds with errors.As
// instead of string matching.
package cocoerr

import "fmt"

// InvalidDocumentError indicates a COCO annotations document is malformed or
// missing a required top-level key or field.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid document: %s", e.Reason)
}

// DuplicateIDError indicates two entities of the same kind share an id.
type DuplicateIDError struct {
	Kind string // "image", "category", or "annotation"
	ID   int64
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id: %d", e.Kind, e.ID)
}

// DanglingReferenceError indicates an annotation references an unknown image
// or category.
type DanglingReferenceError struct {
	AnnotationID int64
	Kind         string // "image" or "category"
	ReferencedID int64
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("annotation %d references unknown %s %d", e.AnnotationID, e.Kind, e.ReferencedID)
}

// NotFoundError indicates a lookup by id failed.
type NotFoundError struct {
	Kind string // "image", "category", or "annotation"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// InvalidRLEError indicates an RLE's run-length sum does not equal h*w.
type InvalidRLEError struct {
	Sum      uint64
	Expected uint64
}

func (e *InvalidRLEError) Error() string {
	return fmt.Sprintf("invalid RLE: counts sum to %d, expected %d", e.Sum, e.Expected)
}

// InvalidCOCORLEError indicates a COCO_RLE string is malformed or decodes to
// the wrong pixel count.
type InvalidCOCORLEError struct {
	Reason string
}

func (e *InvalidCOCORLEError) Error() string {
	return fmt.Sprintf("invalid COCO RLE string: %s", e.Reason)
}

// InvalidPolygonError indicates a polygon ring has an odd-length coordinate
// list (coordinates must come in (x, y) pairs).
type InvalidPolygonError struct {
	Len int
}

func (e *InvalidPolygonError) Error() string {
	return fmt.Sprintf("invalid polygon: odd-length coordinate list (%d values)", e.Len)
}

// MissingSizeError indicates a Polygons value was decoded without the
// externally supplied (h, w) it requires.
type MissingSizeError struct{}

func (e *MissingSizeError) Error() string {
	return "missing size: Polygons segmentation requires an externally supplied size to decode"
}
