// Package ingest discovers Lenzing export files and aggregates their
// samples into a per-date report.
package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Discover walks the directory tree rooted at root and returns every .txt
// file in traversal order. A traversal error is fatal: silently skipping a
// file would corrupt the report without warning.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: walk %s", root)
	}
	return paths, nil
}
