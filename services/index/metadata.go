package index

type MetadataStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Close() error
}

// Exporter writes a finished index somewhere a browser can load it from and
// returns the location it wrote to.
type Exporter interface {
	Export(index *Index, tokenizer *Tokenizer) (string, error)
}
