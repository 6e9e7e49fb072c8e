package types

import "encoding/json"

// OrderedSet is a set of strings that remembers insertion order.
// Phone numbers and emails are stored in one so that duplicates collapse
// while the first-seen order stays the canonical output order.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

// NewOrderedSet creates a set holding the distinct values in the order given
func NewOrderedSet(values ...string) *OrderedSet {
	s := &OrderedSet{index: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not already present
func (s *OrderedSet) Add(v string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set
func (s *OrderedSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Len returns the number of values
func (s *OrderedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns a copy of the values in insertion order
func (s *OrderedSet) Values() []string {
	if s == nil || len(s.items) == 0 {
		return []string{}
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Union appends the values of other that are not yet present, keeping other's order
func (s *OrderedSet) Union(other *OrderedSet) {
	for _, v := range other.Values() {
		s.Add(v)
	}
}

// MarshalJSON encodes the set as a JSON array
func (s *OrderedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, dropping duplicates
func (s *OrderedSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.items = nil
	s.index = make(map[string]struct{}, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return nil
}
