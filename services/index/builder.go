package index

import (
	"context"
	"fmt"
)

// Builder feeds files through the analyser into a fresh Index, one file at a
// time, in the order given.
type Builder struct {
	tokenizer *Tokenizer
	analyser  *Analyser
	index     *Index
}

func NewBuilder(tokenizer *Tokenizer, analyser *Analyser) *Builder {
	return &Builder{
		tokenizer: tokenizer,
		analyser:  analyser,
		index:     NewIndex(),
	}
}

func (b *Builder) Index() *Index {
	return b.index
}

func (b *Builder) Tokenizer() *Tokenizer {
	return b.tokenizer
}

// AddContents catalogs and analyses already-read contents and adds them to
// the index, returning the document's ordinal.
func (b *Builder) AddContents(filePath string, contents string, basePath string, baseURL string) int {
	doc := Catalog(filePath, contents, basePath, baseURL)
	return b.index.AddDocument(doc, b.analyser.Analyse(contents, b.tokenizer))
}

// IndexFiles reads and indexes files in order. A file that cannot be read
// fails the whole build, since a partial index is of no use. progress, if
// set, is called after each file with the number of files done so far.
func (b *Builder) IndexFiles(ctx context.Context, files []string, basePath string, baseURL string, progress func(done int, total int)) error {
	for i, file := range files {
		select {
		case <-ctx.Done():
			return fmt.Errorf("indexing cancelled after %d/%d files: %w", i, len(files), ctx.Err())
		default:
		}

		contents, err := readHTMLFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		b.AddContents(file, contents, basePath, baseURL)

		if progress != nil {
			progress(i+1, len(files))
		}
	}

	return nil
}
