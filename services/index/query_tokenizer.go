package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

var queryTokenizerTemplate = template.Must(template.New("tokenizeString").Parse(`function(string) {
    var stopWords = {{.StopWords}};
    var filterStopWords = {{.FilterStopWords}};
    return string.split(/[{{.CharClass}}]+/).map(function(val) {
        return val.toLowerCase();
    }).filter(function(val) {
        if (val === "") return false;
        if (!filterStopWords) return true;
        return stopWords.indexOf(val) === -1;
    }).map(function(word) {
        return {t: word, w: 1};
    });
}`))

// JavaScript returns the source of a browser function that normalizes a
// search query exactly the way Tokenize normalizes indexed text, minus the
// empty terms an Index never stores.
func (t *Tokenizer) JavaScript() (string, error) {
	stopWords := t.options.StopWords
	if stopWords == nil {
		stopWords = []string{}
	}
	stopWordsJSON, err := json.Marshal(stopWords)
	if err != nil {
		return "", fmt.Errorf("failed to encode stop words: %w", err)
	}

	var source strings.Builder
	err = queryTokenizerTemplate.Execute(&source, struct {
		StopWords       string
		FilterStopWords bool
		CharClass       string
	}{
		StopWords:       string(stopWordsJSON),
		FilterStopWords: t.options.FilterStopWords,
		CharClass:       jsCharClass(t.options.Delimiters + "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render query tokenizer: %w", err)
	}

	return source.String(), nil
}

// jsCharClass escapes characters for use inside a JavaScript regular
// expression character class.
func jsCharClass(chars string) string {
	var class strings.Builder
	for _, r := range chars {
		switch {
		case r == '\n':
			class.WriteString(`\n`)
		case r == '\r':
			class.WriteString(`\r`)
		case r == '\t':
			class.WriteString(`\t`)
		case strings.ContainsRune(`\\[]^-/`, r):
			class.WriteRune('\\')
			class.WriteRune(r)
		default:
			class.WriteRune(r)
		}
	}

	return class.String()
}

