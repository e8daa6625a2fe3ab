package analyzer

import (
	"fmt"

	"plexus/internal/diag"
	"plexus/internal/model"
)

// docSource is the resolution context of one analysis: it turns collected
// scan results into Documents on demand, one Document per URL.
type docSource struct {
	results map[string]*result
	docs    map[string]*model.Document
}

var _ model.DocumentSource = (*docSource)(nil)

func newDocSource(results map[string]*result) *docSource {
	return &docSource{results: results, docs: make(map[string]*model.Document, len(results))}
}

// Document implements model.DocumentSource. A URL that failed to load or scan
// yields an error carrying that failure's warning.
func (s *docSource) Document(url string) (*model.Document, error) {
	if doc, ok := s.docs[url]; ok {
		return doc, nil
	}
	r, ok := s.results[url]
	if !ok {
		return nil, fmt.Errorf("no document loaded for %s", url)
	}
	if r.warning != nil {
		return nil, diag.NewWarningCarryingError(*r.warning, nil)
	}
	doc := model.NewDocument(r.doc, s)
	s.docs[url] = doc
	return doc, nil
}
