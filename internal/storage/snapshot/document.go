package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/storage/trie"
)

// ErrInvalidDocument is returned when a document cannot be decoded.
var ErrInvalidDocument = errors.New("snapshot: invalid document")

// Document is the persisted state of an index.
type Document struct {
	MaxLength int                       `json:"maxLength"`
	Data      map[string]*domain.Record `json:"data"`
	Index     *trie.Index               `json:"index"`
}

// NewDocument returns the empty state.
func NewDocument() *Document {
	return &Document{
		Data:  make(map[string]*domain.Record),
		Index: trie.New(),
	}
}

// Encode serializes doc. When pretty is set the output is indented with
// tabs.
func Encode(doc *Document, pretty bool) ([]byte, error) {
	if doc == nil {
		doc = NewDocument()
	}
	return EncodeValue(doc, pretty)
}

// EncodeValue serializes one section of a document, such as the index
// alone, with the same layout as Encode.
func EncodeValue(v any, pretty bool) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "\t")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode document: %w", err)
	}
	return b, nil
}

// Decode parses a serialized document. Missing sections decode as empty.
func Decode(b []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.MaxLength < 0 {
		return nil, fmt.Errorf("%w: negative maxLength %d", ErrInvalidDocument, doc.MaxLength)
	}
	if doc.Data == nil {
		doc.Data = make(map[string]*domain.Record)
	}
	if doc.Index == nil {
		doc.Index = trie.New()
	}
	return &doc, nil
}
