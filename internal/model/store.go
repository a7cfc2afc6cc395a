package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Store provides in-memory storage and querying of parsed elements with JSONL persistence.
type Store struct {
	mu       sync.RWMutex
	elements []Element

	// Indexes for fast lookups
	byTrait      map[string][]int // trait name -> indices into elements
	byIdentifier map[string][]int // identifier -> indices into elements
}

// NewStore creates an empty element store.
func NewStore() *Store {
	return &Store{
		byTrait:      make(map[string][]int),
		byIdentifier: make(map[string][]int),
	}
}

// Add adds elements to the store.
func (s *Store) Add(ee ...Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range ee {
		idx := len(s.elements)
		s.elements = append(s.elements, e)
		for _, name := range e.Traits.Names() {
			s.byTrait[name] = append(s.byTrait[name], idx)
		}
		if e.Identifier != "" {
			s.byIdentifier[e.Identifier] = append(s.byIdentifier[e.Identifier], idx)
		}
	}
}

// All returns all elements in reading order of insertion.
func (s *Store) All() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Element, len(s.elements))
	copy(result, s.elements)
	return result
}

// Count returns the number of elements in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// ByTrait returns all elements carrying the named trait.
func (s *Store) ByTrait(name string) []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byTrait[name])
}

// ByIdentifier returns all elements with the given accessibility identifier.
func (s *Store) ByIdentifier(id string) []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byIdentifier[id])
}

// At returns the element with the given traversal index.
func (s *Store) At(traversalIndex int) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.elements {
		if e.TraversalIndex == traversalIndex {
			return e, true
		}
	}
	return Element{}, false
}

// QueryOpts holds the query filters for Query. Filters are AND-combined;
// empty values match everything.
type QueryOpts struct {
	Trait       string // trait name (exact)
	Identifier  string // accessibility identifier (exact)
	Text        string // case-insensitive substring of description, label, value or hint
	ContextKind string // container context kind (exact)
	Offset      int    // number of results to skip
	Limit       int    // max results to return (0 = default 100, max 500)
}

// Query returns elements matching opts along with the total count of matches
// before offset/limit are applied.
func (s *Store) Query(opts QueryOpts) ([]Element, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.elements
	if opts.Trait != "" {
		candidates = s.collectByIndex(s.byTrait[opts.Trait])
	}
	text := strings.ToLower(opts.Text)

	var matched []Element
	for _, e := range candidates {
		if opts.Identifier != "" && e.Identifier != opts.Identifier {
			continue
		}
		if opts.ContextKind != "" && (e.ContainerContext == nil || string(e.ContainerContext.Kind) != opts.ContextKind) {
			continue
		}
		if text != "" && !containsFold(text, e.Description, e.Label, e.Value, e.Hint) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)

	// Apply offset
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, total
		}
		matched = matched[opts.Offset:]
	}

	// Apply limit
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, total
}

func containsFold(lowerNeedle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), lowerNeedle) {
			return true
		}
	}
	return false
}

// Clear removes all elements from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = nil
	s.byTrait = make(map[string][]int)
	s.byIdentifier = make(map[string][]int)
}

// WriteJSONL writes all elements as JSONL to the given writer.
func (s *Store) WriteJSONL(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enc := json.NewEncoder(w)
	for _, e := range s.elements {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding element %d: %w", e.TraversalIndex, err)
		}
	}
	return nil
}

// WriteJSONLFile writes all elements as JSONL to the given file path.
func (s *Store) WriteJSONLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := s.WriteJSONL(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadJSONL reads elements from a JSONL reader and adds them to the store.
func (s *Store) ReadJSONL(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	// Allow large lines
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Element
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("decoding element: %w", err)
		}
		s.Add(e)
	}
	return scanner.Err()
}

// ReadJSONLFile reads elements from a JSONL file and adds them to the store.
func (s *Store) ReadJSONLFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.ReadJSONL(f)
}

func (s *Store) collectByIndex(indices []int) []Element {
	result := make([]Element, 0, len(indices))
	for _, idx := range indices {
		if idx < len(s.elements) {
			result = append(result, s.elements[idx])
		}
	}
	return result
}
