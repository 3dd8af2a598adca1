package index

import (
	"math"
	"sort"
)

// Posting is the score of one term within one document.
type Posting struct {
	Document int     `json:"f"`
	Score    float64 `json:"w"`
}

// Index is the inverted index and the document catalog of a single build.
// It is not safe for concurrent use; one build owns it.
type Index struct {
	terms     map[string][]Posting
	documents []Document
}

func NewIndex() *Index {
	return &Index{
		terms: make(map[string][]Posting),
	}
}

// AddDocument appends doc to the catalog and merges its occurrences into the
// index under the new ordinal, which it returns. A term seen again in the
// same document has its score multiplied by the new weight.
func (idx *Index) AddDocument(doc Document, groups [][]TokenOccurrence) int {
	ordinal := len(idx.documents)
	idx.documents = append(idx.documents, doc)

	for _, occurrences := range groups {
		for _, occurrence := range occurrences {
			if occurrence.Term == "" {
				continue
			}

			postings := idx.terms[occurrence.Term]
			// ordinals only grow, so a posting for this document can only be the last one
			if last := len(postings) - 1; last >= 0 && postings[last].Document == ordinal {
				postings[last].Score = compound(postings[last].Score, occurrence.Weight)
				continue
			}
			idx.terms[occurrence.Term] = append(postings, Posting{Document: ordinal, Score: occurrence.Weight})
		}
	}

	return ordinal
}

// compound multiplies two scores, saturating at the largest finite float so
// the index always serializes.
func compound(score float64, weight float64) float64 {
	result := score * weight
	if math.IsInf(result, 1) {
		return math.MaxFloat64
	}
	return result
}

func (idx *Index) Documents() []Document {
	return idx.documents
}

func (idx *Index) Postings(term string) []Posting {
	return idx.terms[term]
}

// Terms exposes the term map for serialization. Callers must not modify it.
func (idx *Index) Terms() map[string][]Posting {
	return idx.terms
}

// SortedTerms lists every indexed term in lexicographic order.
func (idx *Index) SortedTerms() []string {
	terms := make([]string, 0, len(idx.terms))
	for term := range idx.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	return terms
}

func (idx *Index) DocumentCount() int {
	return len(idx.documents)
}

func (idx *Index) TermCount() int {
	return len(idx.terms)
}
