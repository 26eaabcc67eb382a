package indexer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// visitFunc is called for every directory entry found by walkTree.
// Returning true for a directory entry queues it for reading.
type visitFunc func(path string, entry fs.DirEntry) (descend bool)

// errorFunc is called for every directory that could not be read.
type errorFunc func(dir string, err error)

// walkTree visits the tree under root depth-first using an explicit stack,
// so pathological nesting cannot exhaust the goroutine stack. Unreadable
// directories are reported to onError and skipped; entries read before the
// error are still visited. Symlinks are reported as entries but never followed.
// The walk stops early only when ctx is cancelled.
func walkTree(ctx context.Context, root string, visit visitFunc, onError errorFunc) error {
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			onError(dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if visit(path, entry) && entry.IsDir() {
				stack = append(stack, path)
			}
		}
	}
	return nil
}

// DefaultRoots returns the filesystem roots of the running platform:
// "/" on unix, every existing drive letter on windows.
func DefaultRoots() []string {
	if runtime.GOOS != "windows" {
		return []string{"/"}
	}
	var roots []string
	for drive := 'A'; drive <= 'Z'; drive++ {
		root := string(drive) + `:\`
		if _, err := os.Stat(root); err == nil {
			roots = append(roots, root)
		}
	}
	return roots
}
