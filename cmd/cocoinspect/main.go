// Command cocoinspect loads a COCO annotations document and answers simple
// questions about it from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoel-bagard/cocotools-go/coco"
	"github.com/hoel-bagard/cocotools-go/geo"
	"github.com/hoel-bagard/cocotools-go/mask"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cocoinspect",
	Short: "Inspect COCO-format annotation documents",
	Long: `cocoinspect loads a COCO annotations.json file and reports on its
images, categories, and annotations without needing the accompanying
image files.`,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(annCmd)
	rootCmd.AddCommand(decodeCmd)
}

var strictUnknownSegmentation bool

func loadDataset(path string) (*coco.Dataset, error) {
	return coco.Load(path, coco.LoadOptions{StrictUnknownSegmentation: strictUnknownSegmentation})
}

// load command

var loadCmd = &cobra.Command{
	Use:   "load <annotations.json>",
	Short: "Load a document and print its image/category/annotation counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&strictUnknownSegmentation, "strict-unknown-segmentation", false,
		"fail instead of tolerating an annotation with an unrecognised segmentation shape")
}

func runLoad(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	fmt.Printf("images:      %d\n", len(ds.GetImgs()))
	fmt.Printf("categories:  %d\n", len(ds.GetCats()))
	fmt.Printf("annotations: %d\n", len(ds.GetAnns()))
	if unclassified := ds.UnclassifiedAnns(); len(unclassified) > 0 {
		fmt.Printf("unclassified segmentations: %v\n", unclassified)
	}

	total, err := ds.TotalArea()
	if err != nil {
		return fmt.Errorf("total area: %w", err)
	}
	fmt.Printf("total area:  %d\n", total)

	return nil
}

// ann command

var annCmd = &cobra.Command{
	Use:   "ann <annotations.json> <annotation-id>",
	Short: "Print a single annotation, and its image and category, by id",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnn,
}

func init() {
	annCmd.Flags().BoolVar(&strictUnknownSegmentation, "strict-unknown-segmentation", false,
		"fail instead of tolerating an annotation with an unrecognised segmentation shape")
}

func runAnn(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	ann, err := ds.GetAnn(id)
	if err != nil {
		return err
	}
	fmt.Println(ann)

	if img, err := ds.GetImg(ann.ImageID); err == nil {
		fmt.Println(img)
	}
	if cat, err := ds.GetCat(ann.CategoryID); err == nil {
		fmt.Println(cat)
	}

	return nil
}

// decode command

var decodeTarget string

var decodeCmd = &cobra.Command{
	Use:   "decode <annotations.json> <annotation-id>",
	Short: "Decode an annotation's segmentation and print its area and bbox",
	Long: `decode reports the area and bounding box of an annotation's
segmentation, computed directly in its native representation without a
round trip through a different variant.

Use --to to instead convert to a different segmentation variant first
(polygons, polygons-rs, rle, coco-rle) and report on that.`,
	Args: cobra.ExactArgs(2),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&strictUnknownSegmentation, "strict-unknown-segmentation", false,
		"fail instead of tolerating an annotation with an unrecognised segmentation shape")
	decodeCmd.Flags().StringVar(&decodeTarget, "to", "", "convert to this variant before reporting: polygons, polygons-rs, rle, coco-rle")
}

func runDecode(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	ann, err := ds.GetAnn(id)
	if err != nil {
		return err
	}
	if ann.Segmentation == nil {
		return fmt.Errorf("annotation %d has an unclassified segmentation", id)
	}

	seg := ann.Segmentation
	var size *geo.Size
	if _, ok := seg.(mask.Polygons); ok {
		img, err := ds.GetImg(ann.ImageID)
		if err != nil {
			return err
		}
		s := geo.Size{H: img.Height, W: img.Width}
		size = &s
	}

	if decodeTarget != "" {
		variant, err := parseVariant(decodeTarget)
		if err != nil {
			return err
		}
		converted, err := mask.Convert(seg, variant, size)
		if err != nil {
			return fmt.Errorf("convert to %s: %w", decodeTarget, err)
		}
		seg = converted
		if variant != mask.VariantPolygons {
			size = nil
		}
	}

	area, err := mask.Area(seg, size)
	if err != nil {
		return fmt.Errorf("area: %w", err)
	}
	bbox, err := mask.BBoxOf(seg, size)
	if err != nil {
		return fmt.Errorf("bbox: %w", err)
	}

	fmt.Printf("variant: %s\n", seg.Variant())
	fmt.Printf("area:    %d\n", area)
	fmt.Printf("bbox:    %s\n", bbox)

	return nil
}

func parseVariant(s string) (mask.Variant, error) {
	switch s {
	case "polygons":
		return mask.VariantPolygons, nil
	case "polygons-rs":
		return mask.VariantPolygonsRS, nil
	case "rle":
		return mask.VariantRLE, nil
	case "coco-rle":
		return mask.VariantCOCORLE, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want polygons, polygons-rs, rle, or coco-rle)", s)
	}
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid annotation id %q: %w", s, err)
	}
	return id, nil
}
