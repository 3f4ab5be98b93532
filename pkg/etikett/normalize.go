package etikett

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

var exiftoolBin = "exiftool"

// rawPreviewTags are tried in order when pulling a raster out of a RAW container.
var rawPreviewTags = []string{"JpgFromRaw", "PreviewImage"}

// Normalizer converts source images into fixed-quality JPEG previews.
type Normalizer struct {
	MinEdge int
	Quality int

	// ExtractRAW pulls a full-color raster out of a RAW container. Defaults
	// to extracting the embedded preview with exiftool.
	ExtractRAW func(path string) ([]byte, error)
}

// NewNormalizer returns a Normalizer using the exiftool-based RAW extractor.
func NewNormalizer(minEdge int, quality int) *Normalizer {
	return &Normalizer{MinEdge: minEdge, Quality: quality, ExtractRAW: extractWithExiftool}
}

// ConvertRAW decodes a RAW file into a JPEG preview at outPath, upscaling so
// the smaller edge meets MinEdge.
func (n *Normalizer) ConvertRAW(rawPath string, outPath string) error {
	extract := n.ExtractRAW
	if extract == nil {
		extract = extractWithExiftool
	}

	bs, err := extract(rawPath)
	if err != nil {
		return stageErr(ErrDecode, rawPath, fmt.Errorf("extract raster: %w", err))
	}

	img, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return stageErr(ErrDecode, rawPath, fmt.Errorf("decode raster: %w", err))
	}

	img = fitMinEdge(img, n.MinEdge)
	if err := imgio.Save(outPath, img, imgio.JPEGEncoder(n.Quality)); err != nil {
		removePartial(outPath)
		return stageErr(ErrIO, outPath, fmt.Errorf("save: %w", err))
	}

	klog.Infof("converted RAW to JPEG: %s", outPath)
	return nil
}

// Convert re-encodes a standard raster as a JPEG at outPath. No resizing:
// standard sources are assumed to be large enough already.
func (n *Normalizer) Convert(srcPath string, outPath string) error {
	img, err := imgio.Open(srcPath)
	if err != nil {
		return stageErr(ErrDecode, srcPath, fmt.Errorf("open: %w", err))
	}

	if err := imgio.Save(outPath, img, imgio.JPEGEncoder(n.Quality)); err != nil {
		removePartial(outPath)
		return stageErr(ErrIO, outPath, fmt.Errorf("save: %w", err))
	}

	return nil
}

// fitMinEdge uniformly upscales img so its smaller edge equals min. Images
// already at or above min on both edges are returned unchanged.
func fitMinEdge(img image.Image, min int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w >= min && h >= min {
		return img
	}

	x := min
	y := min
	if w <= h {
		y = int(math.Round(float64(h) * float64(min) / float64(w)))
	} else {
		x = int(math.Round(float64(w) * float64(min) / float64(h)))
	}

	klog.V(1).Infof("upscaling %dx%d to %dx%d", w, h, x, y)
	return transform.Resize(img, x, y, transform.Lanczos)
}

func extractWithExiftool(path string) ([]byte, error) {
	var lastErr error

	for _, tag := range rawPreviewTags {
		cmd := exec.Command(exiftoolBin, "-b", "-"+tag, path)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", exiftoolBin, err)
			continue
		}

		if out.Len() > 0 {
			return out.Bytes(), nil
		}
		lastErr = fmt.Errorf("no %s in %s", tag, path)
	}

	return nil, lastErr
}

// removePartial cleans up a truncated output file; absence of output is the
// failure signal callers rely on.
func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		klog.Warningf("unable to remove partial output %s: %v", path, err)
	}
}
