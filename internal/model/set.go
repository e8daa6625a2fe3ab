package model

// featureSet is an insertion-ordered set of features.
type featureSet struct {
	items []Feature
	seen  map[Feature]struct{}
}

func newFeatureSet() *featureSet {
	return &featureSet{seen: make(map[Feature]struct{})}
}

func (s *featureSet) add(f Feature) bool {
	if _, ok := s.seen[f]; ok {
		return false
	}
	s.seen[f] = struct{}{}
	s.items = append(s.items, f)
	return true
}

func (s *featureSet) has(f Feature) bool {
	_, ok := s.seen[f]
	return ok
}

func (s *featureSet) addAll(fs []Feature) {
	for _, f := range fs {
		s.add(f)
	}
}
