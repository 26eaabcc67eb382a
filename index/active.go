package index

import "sync/atomic"

// Active is the single slot holding the trie currently in service.
// Readers always observe a whole trie: a full rebuild publishes a new one with
// Store, and live updates mutate the published trie under its own lock.
type Active struct {
	current atomic.Pointer[Trie]
}

// NewActive creates a slot holding an empty trie.
func NewActive() *Active {
	a := &Active{}
	a.current.Store(NewTrie())
	return a
}

// Load returns the trie currently in service.
func (a *Active) Load() *Trie {
	return a.current.Load()
}

// Store publishes t and returns the trie it replaced.
func (a *Active) Store(t *Trie) *Trie {
	return a.current.Swap(t)
}

// Search queries the trie currently in service.
func (a *Active) Search(query string) []string {
	return a.Load().Search(query)
}

// Glob runs a glob query against the trie currently in service.
func (a *Active) Glob(pattern string, maxResults int) ([]string, error) {
	return a.Load().Glob(pattern, maxResults)
}

// Len returns the number of paths in the trie currently in service.
func (a *Active) Len() int {
	return a.Load().Len()
}
