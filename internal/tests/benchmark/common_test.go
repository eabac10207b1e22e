package benchmark

import (
	"crypto/rand"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/core/service"
	"github.com/yndnr/rolodex/internal/storage/memory"
	"github.com/yndnr/rolodex/internal/storage/snapshot"
	"github.com/yndnr/rolodex/internal/storage/trie"
)

// ContactCounts defines the index sizes for benchmarking.
var ContactCounts = []int{1000, 10000, 50000, 100000}

// SmallContactCounts for quick benchmarks.
var SmallContactCounts = []int{1000, 5000, 10000}

var firstNames = []string{"John", "Jane", "Joseph", "Mary", "Alan", "Alice", "Bob", "Carol"}

// newHandle returns a unique, lower-case word for contact keys.
func newHandle() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, _ := ulid.New(ulid.Timestamp(time.Now()), entropy)
	return strings.ToLower(id.String())
}

// contact returns the i-th synthetic contact key and record.
func contact(i int) (string, domain.Record) {
	first := firstNames[i%len(firstNames)]
	last := newHandle()
	key := first + " " + last
	return key, domain.Record{
		Emails:  []string{strings.ToLower(first) + "." + last + "@example.com"},
		Socials: []string{"@" + last},
		Numbers: []string{fmt.Sprintf("555%07d", i)},
	}
}

// prefillService creates an index with count contacts and returns their keys.
func prefillService(b *testing.B, count int) (*service.IndexService, []string) {
	b.Helper()
	svc := service.NewIndexService(trie.New(), memory.New())
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		key, rec := contact(i)
		if _, err := svc.Add(key, rec); err != nil {
			b.Fatalf("Add(%q) failed: %v", key, err)
		}
		keys[i] = key
	}
	return svc, keys
}

// prefillDocument builds the persisted form of an index with count contacts.
func prefillDocument(b *testing.B, count int) *snapshot.Document {
	b.Helper()
	ix := trie.New()
	store := memory.New()
	svc := service.NewIndexService(ix, store)
	for i := 0; i < count; i++ {
		key, rec := contact(i)
		if _, err := svc.Add(key, rec); err != nil {
			b.Fatalf("Add(%q) failed: %v", key, err)
		}
	}
	return &snapshot.Document{
		MaxLength: store.MaxKeyLength(),
		Data:      store.Records(),
		Index:     ix,
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithContactCounts runs a benchmark function with various index sizes.
func runWithContactCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("contacts_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
