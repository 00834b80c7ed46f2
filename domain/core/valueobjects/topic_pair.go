package valueobjects

import (
	"errors"
	"fmt"
)

// TopicPair is one curated relationship between two node identifiers.
type TopicPair struct {
	Source string
	Target string
}

// CuratedSet is the immutable, ordered list of curated topic pairs loaded at
// startup. The zero value is an empty set.
type CuratedSet struct {
	version int
	pairs   []TopicPair
}

// NewCuratedSet creates a curated set, rejecting pairs with an empty endpoint
func NewCuratedSet(version int, pairs []TopicPair) (CuratedSet, error) {
	if version < 1 {
		return CuratedSet{}, errors.New("curated set version must be positive")
	}

	copied := make([]TopicPair, len(pairs))
	for i, p := range pairs {
		if p.Source == "" || p.Target == "" {
			return CuratedSet{}, fmt.Errorf("curated pair %d: both endpoints are required", i)
		}
		copied[i] = p
	}

	return CuratedSet{version: version, pairs: copied}, nil
}

// Version returns the version of the curated resource
func (s CuratedSet) Version() int {
	return s.version
}

// Len returns the number of pairs
func (s CuratedSet) Len() int {
	return len(s.pairs)
}

// Pairs returns the pairs in their defined order
func (s CuratedSet) Pairs() []TopicPair {
	pairs := make([]TopicPair, len(s.pairs))
	copy(pairs, s.pairs)
	return pairs
}
