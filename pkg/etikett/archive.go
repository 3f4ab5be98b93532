package etikett

import (
	"fmt"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Archive copies a processed original into dstDir, preserving its base name.
func Archive(srcPath string, dstDir string) error {
	dst := filepath.Join(dstDir, filepath.Base(srcPath))
	if err := copy.Copy(srcPath, dst); err != nil {
		return stageErr(ErrIO, srcPath, fmt.Errorf("copy: %w", err))
	}

	klog.Infof("archived %s -> %s", srcPath, dst)
	return nil
}
