package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Label      string // "GET /api/subjects" or "entries.Query"
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries; the oldest entry is overwritten when full.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector holding up to size entries.
// PRE: none (size <= 0 falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size), size: size}
}

// Record appends e, overwriting the oldest entry when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot is the aggregated view of the buffer.
type Snapshot struct {
	TotalRecorded   int64       `json:"totalRecorded"`
	RequestP50Ms    float64     `json:"requestP50Ms"`
	RequestP95Ms    float64     `json:"requestP95Ms"`
	RequestP99Ms    float64     `json:"requestP99Ms"`
	SlowestRequests []LabelStat `json:"slowestRequests"`
	SlowestQueries  []LabelStat `json:"slowestQueries"`
}

// LabelStat aggregates timings for one label.
type LabelStat struct {
	Label   string  `json:"label"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

// Snapshot aggregates entries recorded at or after since, keeping the topN slowest labels per kind.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var durations []float64
	requests := make(map[string]*LabelStat)
	queries := make(map[string]*LabelStat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		bucket := queries
		if e.Kind == KindRequest {
			bucket = requests
			durations = append(durations, e.DurationMs)
		}
		s, ok := bucket[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			bucket[e.Label] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
	}

	snap := Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		SlowestRequests: topByAvg(requests, topN),
		SlowestQueries:  topByAvg(queries, topN),
	}
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns up to n labels ordered by average duration, slowest first.
func topByAvg(stats map[string]*LabelStat, n int) []LabelStat {
	list := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Label < list[j].Label
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
