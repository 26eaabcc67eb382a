package exclude

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Set holds the directories whose subtrees are never indexed.
// It combines normalized absolute paths, name glob patterns and an optional gitignore-syntax file.
// Thread-safe: Add/Remove/Reload acquire a write lock, Contains/Matches acquire a read lock.
type Set struct {
	mu         sync.RWMutex
	paths      map[string]struct{}
	patterns   []string
	ignore     gitignore.GitIgnore
	ignoreFile string
	ignoreBase string
}

// Options configures an exclusion set.
type Options struct {
	Paths      []string // Directories to exclude (any form, normalized on insert)
	Patterns   []string // doublestar patterns matched against base names and slash paths
	IgnoreFile string   // Optional file in gitignore syntax
	IgnoreBase string   // Directory IgnoreFile patterns are relative to (default: the file's directory)
	Defaults   bool     // Load the platform default exclusions
}

// New creates an exclusion set from the given options.
func New(options Options) *Set {
	s := &Set{
		paths: make(map[string]struct{}),
	}
	if options.Defaults {
		s.LoadDefaults()
	}
	s.Add(options.Paths...)
	for _, pattern := range options.Patterns {
		s.patterns = append(s.patterns, foldForPlatform(filepath.ToSlash(pattern)))
	}

	if options.IgnoreFile != "" {
		s.ignoreFile = Normalize(options.IgnoreFile)
		s.ignoreBase = filepath.Dir(s.ignoreFile)
		if options.IgnoreBase != "" {
			s.ignoreBase = Normalize(options.IgnoreBase)
		}
		s.ignore = loadIgnoreFile(s.ignoreFile, s.ignoreBase)
	}
	return s
}

// LoadDefaults adds the well-known system, cache, temp and trash directories of the running platform.
func (s *Set) LoadDefaults() {
	home, _ := os.UserHomeDir()
	s.Add(defaultPaths(runtime.GOOS, home)...)
}

// Add normalizes and inserts each path.
func (s *Set) Add(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		s.paths[Normalize(p)] = struct{}{}
	}
}

// Remove normalizes each path and deletes it if present.
func (s *Set) Remove(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.paths, Normalize(p))
	}
}

// Contains reports whether path, or any of its ancestors, is excluded.
// Ancestors are derived with filepath.Dir so "/tmp2" is never treated as a descendant of "/tmp".
func (s *Set) Contains(path string) bool {
	current := Normalize(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		if _, ok := s.paths[current]; ok {
			return true
		}
		if s.matchesRules(current, true) {
			return true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return false
		}
		current = parent
	}
}

// Matches reports whether path itself is excluded, without looking at its ancestors.
// The tree walk uses it for every entry since ancestors were already checked on the way down.
func (s *Set) Matches(path string, isDir bool) bool {
	normalized := Normalize(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if isDir {
		if _, ok := s.paths[normalized]; ok {
			return true
		}
	}
	return s.matchesRules(normalized, isDir)
}

// Paths returns the excluded directories in sorted order.
func (s *Set) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.paths))
	for p := range s.paths {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// Reload re-reads the ignore file from disk.
func (s *Set) Reload() {
	if s.ignoreFile == "" {
		return
	}
	fresh := loadIgnoreFile(s.ignoreFile, s.ignoreBase)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignore = fresh
}

// matchesRules checks the glob patterns and the ignore file. Caller holds the read lock.
func (s *Set) matchesRules(normalized string, isDir bool) bool {
	baseName := filepath.Base(normalized)
	if baseName == string(filepath.Separator) || filepath.VolumeName(normalized)+string(filepath.Separator) == normalized {
		return false
	}

	if len(s.patterns) > 0 {
		slashPath := strings.TrimPrefix(filepath.ToSlash(normalized), "/")
		for _, pattern := range s.patterns {
			if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
				return true
			}
			if matched, err := doublestar.Match(pattern, slashPath); err == nil && matched {
				return true
			}
		}
	}

	if s.ignore != nil {
		relativePath, err := filepath.Rel(s.ignoreBase, normalized)
		if err != nil || relativePath == "." || relativePath == ".." ||
			strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
			return false
		}
		match := s.ignore.Relative(filepath.ToSlash(relativePath), isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// Normalize expands a leading "~", makes the path absolute and clean, and folds case on
// platforms whose default filesystems are case-insensitive. Symlinks are not resolved.
func Normalize(path string) string {
	path = ExpandHome(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return foldForPlatform(filepath.Clean(path))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func foldForPlatform(path string) string {
	switch runtime.GOOS {
	case "windows", "darwin":
		return strings.ToLower(path)
	}
	return path
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
