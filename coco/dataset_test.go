package coco

import (
	"reflect"
	"testing"

	"github.com/hoel-bagard/cocotools-go/geo"
	"github.com/hoel-bagard/cocotools-go/mask"
)

func TestGetImgsCatsAnnsCounts(t *testing.T) {
	ds := loadSample(t)
	if len(ds.GetImgs()) != 2 {
		t.Errorf("len(GetImgs()) = %d, want 2", len(ds.GetImgs()))
	}
	if len(ds.GetCats()) != 2 {
		t.Errorf("len(GetCats()) = %d, want 2", len(ds.GetCats()))
	}
	if len(ds.GetAnns()) != 3 {
		t.Errorf("len(GetAnns()) = %d, want 3", len(ds.GetAnns()))
	}
}

func TestGetImgCatAnnNotFound(t *testing.T) {
	ds := loadSample(t)
	if _, err := ds.GetImg(1); err == nil {
		t.Error("expected NotFound for unknown image id")
	}
	if _, err := ds.GetCat(1); err == nil {
		t.Error("expected NotFound for unknown category id")
	}
	if _, err := ds.GetAnn(1); err == nil {
		t.Error("expected NotFound for unknown annotation id")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	ds := loadSample(t)
	imgs := ds.GetImgs()
	imgs[0].FileName = "mutated"
	if ds.GetImgs()[0].FileName == "mutated" {
		t.Error("GetImgs returned a view into dataset state, not a copy")
	}
}

func TestInfoAndLicensesPreservedAsRawMessage(t *testing.T) {
	ds := loadSample(t)
	if len(ds.Info()) == 0 {
		t.Error("Info() is empty, want the fixture's info object preserved")
	}
	if len(ds.Licenses()) == 0 {
		t.Error("Licenses() is empty, want the fixture's licenses array preserved")
	}
}

func TestFromComponentsAppliesSameValidation(t *testing.T) {
	images := []Image{{ID: 1, Width: 4, Height: 4, FileName: "a.jpg"}}
	cats := []Category{{ID: 1, Name: "x", Supercategory: "y"}}
	anns := []Annotation{{
		ID: 1, ImageID: 1, CategoryID: 1,
		Segmentation: mask.RLE{Size: geo.Size{H: 4, W: 4}, Counts: []uint32{16}},
		Area:         0,
		BBox:         geo.BBox{},
		IsCrowd:      0,
	}}

	ds, err := FromComponents(images, anns, cats, "")
	if err != nil {
		t.Fatalf("FromComponents: %v", err)
	}
	if len(ds.GetImgs()) != 1 || len(ds.GetCats()) != 1 || len(ds.GetAnns()) != 1 {
		t.Fatalf("FromComponents dataset shape wrong: %+v", ds)
	}

	dupImages := []Image{images[0], images[0]}
	if _, err := FromComponents(dupImages, anns, cats, ""); err == nil {
		t.Error("expected DuplicateId error for duplicate image id")
	}

	danglingAnns := []Annotation{{ID: 2, ImageID: 999, CategoryID: 1, Segmentation: anns[0].Segmentation}}
	if _, err := FromComponents(images, danglingAnns, cats, ""); err == nil {
		t.Error("expected DanglingReference error for unknown image_id")
	}
}

func TestTotalAreaSumsAcrossAnnotations(t *testing.T) {
	images := []Image{{ID: 1, Width: 4, Height: 4, FileName: "a.jpg"}}
	cats := []Category{{ID: 1, Name: "x", Supercategory: "y"}}
	anns := []Annotation{
		{ID: 1, ImageID: 1, CategoryID: 1, Segmentation: mask.RLE{Size: geo.Size{H: 4, W: 4}, Counts: []uint32{5, 2, 2, 2, 5}}},
		{ID: 2, ImageID: 1, CategoryID: 1, Segmentation: mask.COCORLE{Size: geo.Size{H: 4, W: 4}, Counts: "52203"}},
	}

	ds, err := FromComponents(images, anns, cats, "")
	if err != nil {
		t.Fatalf("FromComponents: %v", err)
	}
	total, err := ds.TotalArea()
	if err != nil {
		t.Fatalf("TotalArea: %v", err)
	}
	if total != 4+4 {
		t.Errorf("TotalArea() = %d, want %d", total, 8)
	}
}

func TestAnnotationPinnedFullString(t *testing.T) {
	ann := Annotation{
		ID: 1348739, ImageID: 174482, CategoryID: 3,
		Segmentation: mask.PolygonsRS{
			Size: geo.Size{H: 388, W: 640},
			Rings: [][]float64{{81.28, 87.23, 82.91, 83.96, 84.0, 76.33, 99.48, 76.22, 105.91, 84.5,
				108.09, 93.98, 98.17, 93.44, 90.33, 94.2, 85.97, 94.53, 84.0, 94.31}},
		},
		Area:    390.6123,
		BBox:    geo.BBox{Left: 81.28, Top: 76.22, Width: 26.81, Height: 18.31},
		IsCrowd: 0,
	}

	want := "Annotation(id=1348739, image_id=174482, category_id=3, " +
		"segmentation=PolygonsRS(size=[388, 640], counts=[[81.28, 87.23, 82.91, 83.96, 84, 76.33, 99.48, 76.22, 105.91, 84.5, 108.09, 93.98, 98.17, 93.44, 90.33, 94.2, 85.97, 94.53, 84, 94.31]]), " +
		"area=390.6123, bbox=BBox(left=81.28, top=76.22, width=26.81, height=18.31), iscrowd=0)"
	if got := ann.String(); got != want {
		t.Errorf("Annotation.String() =\n%q, want\n%q", got, want)
	}
	if !reflect.DeepEqual(ann.Segmentation.(mask.PolygonsRS).Size, geo.Size{H: 388, W: 640}) {
		t.Error("sanity: size not preserved")
	}
}
