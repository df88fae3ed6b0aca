package coco

import (
	"encoding/json"
	"os"

	"github.com/hoel-bagard/cocotools-go/cocoerr"
	"github.com/hoel-bagard/cocotools-go/mask"
)

// Dataset is an immutable, indexed view over a parsed COCO document. It is
// constructed once by Load or FromComponents and never mutated thereafter,
// so a *Dataset is safe for concurrent readers without synchronization.
//
// Example:
//
//	ds, err := coco.Load("annotations.json", coco.DefaultLoadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ann, err := ds.GetAnn(1348739)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ann)
type Dataset struct {
	doc *document
	idx *indices
}

// Load reads and parses a COCO JSON document from path, builds its reverse
// indices, and returns the resulting Dataset. The read and parse are the
// only I/O or suspension points in this package.
//
// Example:
//
//	ds, err := coco.Load("annotations.json", coco.LoadOptions{StrictUnknownSegmentation: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d images, %d annotations\n", len(ds.GetImgs()), len(ds.GetAnns()))
func Load(path string, opts LoadOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadFromBytes(data, opts)
}

func loadFromBytes(data []byte, opts LoadOptions) (*Dataset, error) {
	doc, err := parseDocument(data, opts)
	if err != nil {
		return nil, err
	}
	idx, err := buildIndices(doc)
	if err != nil {
		return nil, err
	}
	return &Dataset{doc: doc, idx: idx}, nil
}

// FromComponents constructs a Dataset from already-in-memory collections,
// applying the same id-uniqueness and dangling-reference validations as
// Load. imageRoot is accepted but otherwise unused: image loading is out of
// this package's scope, and the parameter is kept only so callers migrating
// from an API that threads an image root through construction don't need
// to drop the argument.
func FromComponents(images []Image, annotations []Annotation, categories []Category, imageRoot string) (*Dataset, error) {
	_ = imageRoot

	doc := &document{
		images:      append([]Image(nil), images...),
		annotations: append([]Annotation(nil), annotations...),
		categories:  append([]Category(nil), categories...),
	}

	seenImg := make(map[int64]bool, len(doc.images))
	for _, img := range doc.images {
		if seenImg[img.ID] {
			return nil, &cocoerr.DuplicateIDError{Kind: "image", ID: img.ID}
		}
		seenImg[img.ID] = true
	}
	seenCat := make(map[int64]bool, len(doc.categories))
	for _, cat := range doc.categories {
		if seenCat[cat.ID] {
			return nil, &cocoerr.DuplicateIDError{Kind: "category", ID: cat.ID}
		}
		seenCat[cat.ID] = true
	}
	seenAnn := make(map[int64]bool, len(doc.annotations))
	for _, ann := range doc.annotations {
		if seenAnn[ann.ID] {
			return nil, &cocoerr.DuplicateIDError{Kind: "annotation", ID: ann.ID}
		}
		seenAnn[ann.ID] = true
	}

	idx, err := buildIndices(doc)
	if err != nil {
		return nil, err
	}
	return &Dataset{doc: doc, idx: idx}, nil
}

// GetImgs returns every image, in document order.
func (d *Dataset) GetImgs() []Image { return append([]Image(nil), d.doc.images...) }

// GetCats returns every category, in document order.
func (d *Dataset) GetCats() []Category { return append([]Category(nil), d.doc.categories...) }

// GetAnns returns every annotation, in document order.
func (d *Dataset) GetAnns() []Annotation { return append([]Annotation(nil), d.doc.annotations...) }

// GetImg looks up a single image by id.
func (d *Dataset) GetImg(id int64) (Image, error) {
	img, ok := d.idx.imgsByID[id]
	if !ok {
		return Image{}, &cocoerr.NotFoundError{Kind: "image", ID: id}
	}
	return img, nil
}

// GetCat looks up a single category by id.
func (d *Dataset) GetCat(id int64) (Category, error) {
	cat, ok := d.idx.catsByID[id]
	if !ok {
		return Category{}, &cocoerr.NotFoundError{Kind: "category", ID: id}
	}
	return cat, nil
}

// GetAnn looks up a single annotation by id.
func (d *Dataset) GetAnn(id int64) (Annotation, error) {
	ann, ok := d.idx.annsByID[id]
	if !ok {
		return Annotation{}, &cocoerr.NotFoundError{Kind: "annotation", ID: id}
	}
	return ann, nil
}

// GetImgAnns returns every annotation belonging to imageID, in document
// order. It fails NotFound if imageID is not a known image; it returns an
// empty (nil) slice if the image exists but has no annotations.
func (d *Dataset) GetImgAnns(imageID int64) ([]Annotation, error) {
	if _, ok := d.idx.imgsByID[imageID]; !ok {
		return nil, &cocoerr.NotFoundError{Kind: "image", ID: imageID}
	}
	return append([]Annotation(nil), d.idx.annsByImage[imageID]...), nil
}

// BBoxIndex returns the dataset's R-tree spatial index over annotation
// bounding boxes, for QueryAnnsInBBox/QueryAnnsInRadius lookups.
func (d *Dataset) BBoxIndex() *BBoxIndex { return d.idx.bboxIndex }

// UnclassifiedAnns returns the ids of annotations whose segmentation
// matched none of the three known JSON shapes during a non-strict Load.
func (d *Dataset) UnclassifiedAnns() []int64 {
	return append([]int64(nil), d.doc.unclassified...)
}

// Info returns the document's top-level "info" object, verbatim and
// unparsed, or nil if the document carried none.
func (d *Dataset) Info() json.RawMessage { return d.doc.info }

// Licenses returns the document's top-level "licenses" array, verbatim and
// unparsed, or nil if the document carried none.
func (d *Dataset) Licenses() json.RawMessage { return d.doc.licenses }

// TotalArea sums Area() over every annotation's segmentation, surfacing the
// first conversion error encountered. Useful as a dataset-wide sanity
// aggregate, e.g. to compare against a previously recorded total.
func (d *Dataset) TotalArea() (int, error) {
	total := 0
	for _, ann := range d.doc.annotations {
		if ann.Segmentation == nil {
			continue
		}
		area, err := d.areaOf(ann)
		if err != nil {
			return 0, err
		}
		total += area
	}
	return total, nil
}

// areaOf computes Area() for ann's segmentation, resolving a bare Polygons
// value's size from its owning image (Polygons itself carries none).
func (d *Dataset) areaOf(ann Annotation) (int, error) {
	if _, ok := ann.Segmentation.(mask.Polygons); ok {
		img, ok := d.idx.imgsByID[ann.ImageID]
		if !ok {
			return 0, &cocoerr.DanglingReferenceError{AnnotationID: ann.ID, Kind: "image", ReferencedID: ann.ImageID}
		}
		size := imageSize(img)
		return mask.Area(ann.Segmentation, &size)
	}
	return mask.Area(ann.Segmentation, nil)
}
