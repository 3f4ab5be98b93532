package etikett

import (
	"fmt"
	"strings"

	exiftool "github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// MetadataSink appends descriptive tags to an image's embedded keyword
// metadata. Implementations must treat the write as best-effort: callers
// never roll back earlier artifacts on failure.
type MetadataSink interface {
	AppendTags(path string, tags []string) error
}

// ExifSink appends tags to the XMP Subject field using exiftool.
type ExifSink struct {
	et *exiftool.Exiftool
}

// NewExifSink starts an exiftool session for metadata writes.
func NewExifSink() (*ExifSink, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifSink{et: et}, nil
}

// Close shuts down the exiftool session.
func (s *ExifSink) Close() error {
	return s.et.Close()
}

// AppendTags appends the comma-joined tag set to the existing Subject
// keywords and writes them back in place.
func (s *ExifSink) AppendTags(path string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	fms := s.et.ExtractMetadata(path)
	if fms[0].Err != nil {
		return stageErr(ErrMetadata, path, fmt.Errorf("extract: %w", fms[0].Err))
	}

	existing, err := fms[0].GetStrings("Subject")
	if err != nil {
		klog.V(1).Infof("no existing subject for %s: %v", path, err)
	}

	fms[0].SetStrings("Subject", append(existing, strings.Join(tags, ", ")))
	s.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return stageErr(ErrMetadata, path, fmt.Errorf("write: %w", fms[0].Err))
	}

	klog.Infof("tags added to metadata: %s", path)
	return nil
}
