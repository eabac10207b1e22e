package benchmark

import (
	"testing"

	"github.com/yndnr/rolodex/internal/core/service"
	"github.com/yndnr/rolodex/internal/storage/memory"
	"github.com/yndnr/rolodex/internal/storage/trie"
)

// BenchmarkIndexAdd measures adding new contacts to an empty index.
func BenchmarkIndexAdd(b *testing.B) {
	svc := service.NewIndexService(trie.New(), memory.New())

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		key, rec := contact(i)
		if _, err := svc.Add(key, rec); err != nil {
			b.Fatalf("Add failed: %v", err)
		}
	}
	b.StopTimer()
	reportMemory(b, "mem")
}

// BenchmarkIndexSearch measures short-prefix lookups that match many
// contacts.
func BenchmarkIndexSearch(b *testing.B) {
	runWithContactCounts(b, ContactCounts, func(b *testing.B, count int) {
		svc, _ := prefillService(b, count)
		queries := []string{"Jo", "Ma", "@0", "555", "alice."}

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			svc.Search(queries[i%len(queries)], 10)
		}
	})
}

// BenchmarkIndexSearchExact measures lookups by a full contact key.
func BenchmarkIndexSearchExact(b *testing.B) {
	runWithContactCounts(b, SmallContactCounts, func(b *testing.B, count int) {
		svc, keys := prefillService(b, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if got := svc.Search(keys[i%len(keys)], 1); len(got) != 1 {
				b.Fatalf("Search(%q) returned %d results", keys[i%len(keys)], len(got))
			}
		}
	})
}

// BenchmarkIndexAddRemove measures a remove and re-add cycle on a filled
// index, which exercises node pruning.
func BenchmarkIndexAddRemove(b *testing.B) {
	runWithContactCounts(b, SmallContactCounts, func(b *testing.B, count int) {
		svc, keys := prefillService(b, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			key := keys[i%len(keys)]
			removed, err := svc.Remove(key)
			if err != nil {
				b.Fatalf("Remove(%q) failed: %v", key, err)
			}
			if _, err := svc.Add(key, *removed.Record()); err != nil {
				b.Fatalf("Add(%q) failed: %v", key, err)
			}
		}
	})
}
