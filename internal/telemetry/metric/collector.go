package metric

import "github.com/prometheus/client_golang/prometheus"

// IndexStats is a point-in-time view of an index.
type IndexStats struct {
	Records      int
	Tokens       int
	Nodes        int
	MaxKeyLength int
}

// IndexCollector reports IndexStats gauges, sampled when metrics are
// gathered.
type IndexCollector struct {
	stats func() IndexStats

	records *prometheus.Desc
	tokens  *prometheus.Desc
	nodes   *prometheus.Desc
	maxKey  *prometheus.Desc
}

// NewIndexCollector creates a collector that calls stats on every gather.
func NewIndexCollector(stats func() IndexStats) *IndexCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "index", name), help, nil, nil)
	}
	return &IndexCollector{
		stats:   stats,
		records: desc("records", "Number of stored contacts"),
		tokens:  desc("tokens", "Number of live token insertions"),
		nodes:   desc("nodes", "Number of trie nodes below the root"),
		maxKey:  desc("max_key_length", "Longest contact name ever stored, in characters"),
	}
}

// Describe implements prometheus.Collector.
func (c *IndexCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.tokens
	ch <- c.nodes
	ch <- c.maxKey
}

// Collect implements prometheus.Collector.
func (c *IndexCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.records, prometheus.GaugeValue, float64(s.Records))
	ch <- prometheus.MustNewConstMetric(c.tokens, prometheus.GaugeValue, float64(s.Tokens))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Nodes))
	ch <- prometheus.MustNewConstMetric(c.maxKey, prometheus.GaugeValue, float64(s.MaxKeyLength))
}
