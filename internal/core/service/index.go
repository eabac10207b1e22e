package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/telemetry/logger"
)

// DefaultMaxResults is the number of results returned when a search does
// not ask for a positive bound.
const DefaultMaxResults = 10

// TokenIndex maps tokens to the record keys they were inserted for.
type TokenIndex interface {
	// Insert associates token with key. A pair must be inserted at most once.
	Insert(token, key string) error

	// Remove drops a previously inserted association.
	Remove(token, key string) error

	// SearchPrefix returns up to max distinct keys whose tokens start with prefix.
	SearchPrefix(prefix string, max int) []string
}

// RecordRepository stores contact records by key.
type RecordRepository interface {
	// Upsert merges updates into the record under key, creating it if needed.
	Upsert(key string, updates domain.Record) (*domain.Record, bool)

	// Get returns a copy of the record under key.
	Get(key string) (*domain.Record, bool)

	// Delete removes the record under key.
	Delete(key string) bool

	// Len returns the number of records.
	Len() int

	// MaxKeyLength returns the longest key ever stored, in runes.
	MaxKeyLength() int
}

// IndexService keeps a TokenIndex and a RecordRepository in step.
type IndexService struct {
	index      TokenIndex
	records    RecordRepository
	defaultMax int
	log        logger.Logger
}

// Option configures the IndexService.
type Option func(*IndexService)

// WithDefaultMax sets the result bound used when Search is called with
// max <= 0. Non-positive values are ignored.
func WithDefaultMax(n int) Option {
	return func(s *IndexService) {
		if n > 0 {
			s.defaultMax = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *IndexService) {
		if l != nil {
			s.log = l
		}
	}
}

// NewIndexService creates a new IndexService over an index and a store.
func NewIndexService(index TokenIndex, records RecordRepository, opts ...Option) *IndexService {
	s := &IndexService{
		index:      index,
		records:    records,
		defaultMax: DefaultMaxResults,
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDefaultMax changes the result bound used for non-positive max values.
func (s *IndexService) SetDefaultMax(n int) {
	WithDefaultMax(n)(s)
}

// DefaultMax returns the result bound used for non-positive max values.
func (s *IndexService) DefaultMax() int {
	return s.defaultMax
}

// ============================================================================
// Add Operation
// ============================================================================

// AddResult describes the outcome of Add.
type AddResult struct {
	Key     string
	Created bool

	// Indexed lists the tokens newly inserted for Key.
	Indexed []string

	Record *domain.Record
}

// Add merges updates into the record under key and indexes every token
// the record gained.
func (s *IndexService) Add(key string, updates domain.Record) (*AddResult, error) {
	// 1. Validate
	if key == "" {
		return nil, domain.ErrEmptyKey
	}
	if err := checkText(key, &updates); err != nil {
		return nil, err
	}

	// 2. Snapshot the tokens already indexed for this key
	var before []string
	if prev, ok := s.records.Get(key); ok {
		before = Tokens(key, prev)
	}

	// 3. Merge into the store first
	rec, created := s.records.Upsert(key, updates)

	// 4. Index the difference
	known := make(map[string]struct{}, len(before))
	for _, tok := range before {
		known[tok] = struct{}{}
	}
	var indexed []string
	for _, tok := range Tokens(key, rec) {
		if _, ok := known[tok]; ok {
			continue
		}
		if err := s.index.Insert(tok, key); err != nil {
			return nil, domain.ErrIndexInconsistent.
				WithDetails(fmt.Sprintf("insert %q for %q", tok, key)).
				WithCause(err)
		}
		indexed = append(indexed, tok)
	}

	s.log.Debug("contact added",
		"key", key,
		"created", created,
		"indexed", len(indexed),
	)

	return &AddResult{
		Key:     key,
		Created: created,
		Indexed: indexed,
		Record:  rec,
	}, nil
}

// ============================================================================
// Search Operation
// ============================================================================

// Search returns up to max records reachable from tokens starting with
// query. An empty query, or one longer than any key ever stored, matches
// nothing. max <= 0 selects the service default.
func (s *IndexService) Search(query string, max int) []domain.Result {
	if query == "" || utf8.RuneCountInString(query) > s.records.MaxKeyLength() {
		return nil
	}
	if max <= 0 {
		max = s.defaultMax
	}

	keys := s.index.SearchPrefix(query, max)
	results := make([]domain.Result, 0, len(keys))
	for _, key := range keys {
		rec, ok := s.records.Get(key)
		if !ok {
			s.log.Warn("index references missing record", "key", key)
			continue
		}
		results = append(results, domain.NewResult(key, rec))
	}
	return results
}

// Get returns the record stored under exactly key.
func (s *IndexService) Get(key string) (*domain.Result, error) {
	rec, ok := s.records.Get(key)
	if !ok {
		return nil, domain.ErrContactNotFound.WithDetails(fmt.Sprintf("no contact named %q", key))
	}
	res := domain.NewResult(key, rec)
	return &res, nil
}

// Len returns the number of stored records.
func (s *IndexService) Len() int {
	return s.records.Len()
}

// ============================================================================
// Remove Operation
// ============================================================================

// Remove deletes the first record matched by query together with every
// token indexed for it. When nothing matches, ErrContactNotFound is
// returned and neither structure changes.
func (s *IndexService) Remove(query string) (*domain.Result, error) {
	// 1. Resolve the query to one record
	hits := s.Search(query, 1)
	if len(hits) == 0 {
		return nil, domain.ErrContactNotFound.WithDetails(fmt.Sprintf("no contact matches %q", query))
	}
	hit := hits[0]

	// 2. Unindex the record's full token set
	var missing int
	for _, tok := range Tokens(hit.Name, hit.Record()) {
		if err := s.index.Remove(tok, hit.Name); err != nil {
			missing++
			s.log.Warn("token not indexed for contact",
				"key", hit.Name,
				"token", tok,
				"error", err,
			)
		}
	}

	// 3. Drop the record
	s.records.Delete(hit.Name)

	s.log.Debug("contact removed",
		"key", hit.Name,
		"query", query,
		"missing_tokens", missing,
	)
	return &hit, nil
}

// checkText rejects a key or value that is not valid UTF-8. The index
// walks tokens rune by rune, so such text must be refused before the
// store is touched.
func checkText(key string, updates *domain.Record) error {
	if !utf8.ValidString(key) {
		return domain.ErrInvalidText.WithDetails(fmt.Sprintf("key %q", key))
	}
	var err error
	updates.Each(func(c domain.Category, v string) {
		if err == nil && !utf8.ValidString(v) {
			err = domain.ErrInvalidText.WithDetails(fmt.Sprintf("%s value %q", c, v))
		}
	})
	return err
}

// Tokens returns the distinct tokens indexed for a record: the words of
// key after the first, every attribute value in category order, and key
// itself.
func Tokens(key string, rec *domain.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tok string) {
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	if words := domain.KeyWords(key); len(words) > 1 {
		for _, w := range words[1:] {
			add(w)
		}
	}
	if rec != nil {
		rec.Each(func(_ domain.Category, v string) {
			add(v)
		})
	}
	add(key)
	return out
}
