package index

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDelimiters are the characters that separate terms. A newline is
// always treated as a delimiter in addition to these.
const DefaultDelimiters = ".,;:\\/[](){} \"'!?@#$%&*_-<>+="

var defaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "if", "in", "into", "is", "it",
	"no", "not", "of", "on", "or", "such",
	"that", "the", "their", "then", "there", "these",
	"they", "this", "to", "was", "will", "with",
}

// TokenOccurrence is a single term produced from a piece of text along with
// the weight it carries for that occurrence.
type TokenOccurrence struct {
	Term   string
	Weight float64
}

// TokenizerOptions is the single parameter set both the Go tokenizer and
// the generated JavaScript query tokenizer are built from.
type TokenizerOptions struct {
	Delimiters      string
	StopWords       []string
	FilterStopWords bool
}

func DefaultTokenizerOptions() TokenizerOptions {
	stopWords := make([]string, len(defaultStopWords))
	copy(stopWords, defaultStopWords)

	return TokenizerOptions{
		Delimiters:      DefaultDelimiters,
		StopWords:       stopWords,
		FilterStopWords: true,
	}
}

type Tokenizer struct {
	options    TokenizerOptions
	delimiters map[rune]struct{}
	stopWords  map[string]struct{}
}

func NewTokenizer(options TokenizerOptions) *Tokenizer {
	delimiters := make(map[rune]struct{}, len(options.Delimiters)+1)
	for _, r := range options.Delimiters {
		delimiters[r] = struct{}{}
	}
	delimiters['\n'] = struct{}{}

	stopWords := make(map[string]struct{}, len(options.StopWords))
	for _, word := range options.StopWords {
		stopWords[word] = struct{}{}
	}

	return &Tokenizer{
		options:    options,
		delimiters: delimiters,
		stopWords:  stopWords,
	}
}

func (t *Tokenizer) Options() TokenizerOptions {
	return t.options
}

// Tokenize splits text on every delimiter and lower-cases each fragment the
// way JavaScript's toLowerCase does, final sigma included. Adjacent
// delimiters yield empty terms; they are kept here and dropped when the
// occurrences are added to an Index.
func (t *Tokenizer) Tokenize(text string) []TokenOccurrence {
	var tokens []TokenOccurrence
	// a Caser is stateful and must not be shared between goroutines
	lower := cases.Lower(language.Und)

	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if _, ok := t.delimiters[r]; ok {
			tokens = t.appendToken(tokens, lower.String(text[start:i]))
			start = i + size
		}
		i += size
	}

	return t.appendToken(tokens, lower.String(text[start:]))
}

func (t *Tokenizer) appendToken(tokens []TokenOccurrence, term string) []TokenOccurrence {
	if t.isFiltered(term) {
		return tokens
	}

	return append(tokens, TokenOccurrence{Term: term, Weight: 1})
}

func (t *Tokenizer) isFiltered(term string) bool {
	if !t.options.FilterStopWords {
		return false
	}
	_, ok := t.stopWords[term]

	return ok
}
