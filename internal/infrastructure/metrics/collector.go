package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector collects and aggregates metrics for the entity store.
// It tracks per-operation request counts, error counts, total durations, and
// the number of database queries issued, so the query shape of the bulk read
// paths stays observable.
type Collector struct {
	operations sync.Map // map[string]*uint64 - operation -> count
	errors     sync.Map // map[string]*uint64 - operation -> error count
	queries    sync.Map // map[string]*uint64 - operation -> query count
	durations  sync.Map // map[string]*durationValue - operation -> total seconds
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// StoreMetrics holds a snapshot of entity store metrics.
type StoreMetrics struct {
	OperationCounts      map[string]uint64
	ErrorCounts          map[string]uint64
	QueryCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordOperation records one store operation call.
func (c *Collector) RecordOperation(operation string) {
	atomic.AddUint64(c.counter(&c.operations, operation), 1)
}

// RecordError records a failed store operation.
func (c *Collector) RecordError(operation string) {
	atomic.AddUint64(c.counter(&c.errors, operation), 1)
}

// RecordQueries adds the number of database queries an operation issued.
func (c *Collector) RecordQueries(operation string, n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(c.counter(&c.queries, operation), uint64(n))
}

// RecordDuration records the duration of a store operation in seconds.
func (c *Collector) RecordDuration(operation string, durationSeconds float64) {
	val, _ := c.durations.LoadOrStore(operation, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// GetStoreMetrics returns a snapshot of all recorded metrics.
func (c *Collector) GetStoreMetrics() *StoreMetrics {
	result := &StoreMetrics{
		OperationCounts:      make(map[string]uint64),
		ErrorCounts:          make(map[string]uint64),
		QueryCounts:          make(map[string]uint64),
		TotalDurationSeconds: make(map[string]float64),
	}

	collect := func(m *sync.Map, into map[string]uint64) {
		m.Range(func(key, value interface{}) bool {
			into[key.(string)] = atomic.LoadUint64(value.(*uint64))
			return true
		})
	}
	collect(&c.operations, result.OperationCounts)
	collect(&c.errors, result.ErrorCounts)
	collect(&c.queries, result.QueryCounts)

	c.durations.Range(func(key, value interface{}) bool {
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[key.(string)] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

func (c *Collector) counter(m *sync.Map, operation string) *uint64 {
	val, _ := m.LoadOrStore(operation, new(uint64))
	return val.(*uint64)
}
