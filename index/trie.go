package index

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

// ErrInvalidPattern is returned by Glob for malformed patterns.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// trieNode is one character of a case-folded filename prefix.
// ids holds the path IDs of every filename sharing the prefix; terminal counts
// the filenames that end exactly here.
type trieNode struct {
	children map[rune]*trieNode
	ids      *roaring.Bitmap
	terminal int
}

func newTrieNode() *trieNode {
	return &trieNode{ids: roaring.New()}
}

// entry is one indexed path. A removed entry keeps its slot with an empty path.
type entry struct {
	path   string
	folded string // case-folded base name
}

// Trie maps every case-folded prefix of every indexed filename to the paths
// whose name starts with that prefix. It also keeps the flat set of all
// indexed paths for substring search.
//
// A path is assigned one ID on first insert, so prefix results never hold
// duplicates. Remove clears the ID from every node on the name's prefix chain
// and prunes nodes left empty, so prefix and substring search always agree.
type Trie struct {
	mu      sync.RWMutex
	root    *trieNode
	ids     map[string]uint32 // flat set: path -> ID
	entries []entry           // ID -> entry
}

// NewTrie creates an empty prefix index.
func NewTrie() *Trie {
	return &Trie{
		root: newTrieNode(),
		ids:  make(map[string]uint32),
	}
}

// invalidByteKey offsets the node key of a byte that is not valid UTF-8, so
// each such byte gets its own node instead of every one sharing U+FFFD.
const invalidByteKey = utf8.MaxRune + 1

// Fold returns the case-folded form used for names and queries.
// Bytes that are not valid UTF-8 are kept verbatim.
func Fold(s string) string {
	caser := cases.Fold()
	if utf8.ValidString(s) {
		return caser.String(s)
	}

	var builder strings.Builder
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			builder.WriteString(caser.String(s[start:i]))
			builder.WriteByte(s[i])
			i++
			start = i
			continue
		}
		i += size
	}
	builder.WriteString(caser.String(s[start:]))
	return builder.String()
}

// nodeKeys splits a folded name into trie node keys: one per rune, and one
// per byte that does not decode.
func nodeKeys(folded string) []rune {
	keys := make([]rune, 0, len(folded))
	for i := 0; i < len(folded); {
		r, size := utf8.DecodeRuneInString(folded[i:])
		if r == utf8.RuneError && size == 1 {
			r = invalidByteKey + rune(folded[i])
		}
		keys = append(keys, r)
		i += size
	}
	return keys
}

// Insert indexes fullPath under fileName. Inserting the same path again is a no-op.
func (t *Trie) Insert(fileName string, fullPath string) {
	folded := Fold(fileName)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.ids[fullPath]; exists {
		return
	}
	id := uint32(len(t.entries))
	t.entries = append(t.entries, entry{path: fullPath, folded: folded})
	t.ids[fullPath] = id

	node := t.root
	node.ids.Add(id)
	for _, r := range nodeKeys(folded) {
		child, ok := node.children[r]
		if !ok {
			if node.children == nil {
				node.children = make(map[rune]*trieNode)
			}
			child = newTrieNode()
			node.children[r] = child
		}
		child.ids.Add(id)
		node = child
	}
	node.terminal++
}

// Remove drops fullPath from the flat set and from every trie node on the prefix chain of its name.
// The name stored at insert time is used, so fileName only serves as a fallback label.
func (t *Trie) Remove(fileName string, fullPath string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, exists := t.ids[fullPath]
	if !exists {
		return
	}
	folded := t.entries[id].folded
	if folded == "" {
		folded = Fold(fileName)
	}
	delete(t.ids, fullPath)
	t.entries[id] = entry{}

	// Record the chain so empty nodes can be pruned bottom-up.
	keys := nodeKeys(folded)
	chain := make([]*trieNode, 0, len(keys)+1)
	runes := make([]rune, 0, len(keys))
	node := t.root
	node.ids.Remove(id)
	chain = append(chain, node)
	for _, r := range keys {
		child, ok := node.children[r]
		if !ok {
			break
		}
		child.ids.Remove(id)
		chain = append(chain, child)
		runes = append(runes, r)
		node = child
	}
	if len(runes) == len(keys) && node.terminal > 0 {
		node.terminal--
	}

	for i := len(chain) - 1; i > 0; i-- {
		child := chain[i]
		if !child.ids.IsEmpty() || child.terminal > 0 || len(child.children) > 0 {
			break
		}
		delete(chain[i-1].children, runes[i-1])
	}
}

// Search returns the paths whose case-folded name starts with query. When no
// name has that prefix it falls back to every path whose case-folded name
// contains query. An empty query returns nil.
func (t *Trie) Search(query string) []string {
	if query == "" {
		return nil
	}
	folded := Fold(query)

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, r := range nodeKeys(folded) {
		child, ok := node.children[r]
		if !ok {
			node = nil
			break
		}
		node = child
	}
	if node != nil && !node.ids.IsEmpty() {
		results := make([]string, 0, node.ids.GetCardinality())
		it := node.ids.Iterator()
		for it.HasNext() {
			results = append(results, t.entries[it.Next()].path)
		}
		return results
	}

	var results []string
	for _, e := range t.entries {
		if e.path != "" && strings.Contains(e.folded, folded) {
			results = append(results, e.path)
		}
	}
	return results
}

// Has reports whether a filename equal to name (case-insensitively) is indexed.
func (t *Trie) Has(name string) bool {
	folded := Fold(name)

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, r := range nodeKeys(folded) {
		child, ok := node.children[r]
		if !ok {
			return false
		}
		node = child
	}
	return node.terminal > 0
}

// Glob returns up to maxResults indexed paths matching a doublestar pattern.
// Patterns are matched against forward-slash paths; a pattern without a
// separator is matched against the base name only.
func (t *Trie) Glob(pattern string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, pattern)
	}
	nameOnly := !strings.Contains(pattern, "/")

	t.mu.RLock()
	defer t.mu.RUnlock()

	var results []string
	for _, e := range t.entries {
		if len(results) >= maxResults {
			break
		}
		if e.path == "" {
			continue
		}
		subject := filepath.ToSlash(e.path)
		if nameOnly {
			subject = filepath.Base(e.path)
		}
		matched, err := doublestar.Match(pattern, subject)
		if err != nil {
			continue
		}
		if matched {
			results = append(results, e.path)
		}
	}
	return results, nil
}

// Len returns the number of indexed paths.
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// Clear removes every path and trie node.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.root = newTrieNode()
	t.ids = make(map[string]uint32)
	t.entries = nil
}
