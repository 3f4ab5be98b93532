package etikett

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Enumerate lists the regular files in dir, non-recursively. Dotfiles and
// subdirectories are skipped so that an output directory nested inside the
// input directory never feeds back into the batch.
func Enumerate(dir string) ([]string, error) {
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("read dirnames: %w", err)
	}
	sort.Strings(names)

	found := []string{}
	for _, n := range names {
		if n[0] == '.' {
			continue
		}

		path := filepath.Join(dir, n)
		fi, err := os.Stat(path)
		if err != nil {
			klog.Errorf("stat failure: %v", err)
			continue
		}

		if !fi.Mode().IsRegular() {
			continue
		}

		found = append(found, path)
	}

	return found, nil
}
