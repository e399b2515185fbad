package metrics

import (
	"fmt"
	"sync"
	"testing"
)

func TestCollector_RecordOperation(t *testing.T) {
	c := NewCollector()

	c.RecordOperation("GetEntityByID")
	c.RecordOperation("GetEntityByID")
	c.RecordOperation("CreateEntity")

	metrics := c.GetStoreMetrics()
	if metrics.OperationCounts["GetEntityByID"] != 2 {
		t.Errorf("Expected 2 GetEntityByID operations, got %d", metrics.OperationCounts["GetEntityByID"])
	}
	if metrics.OperationCounts["CreateEntity"] != 1 {
		t.Errorf("Expected 1 CreateEntity operation, got %d", metrics.OperationCounts["CreateEntity"])
	}
}

func TestCollector_RecordError(t *testing.T) {
	c := NewCollector()

	c.RecordOperation("SetAttributeValue")
	c.RecordError("SetAttributeValue")

	metrics := c.GetStoreMetrics()
	if metrics.OperationCounts["SetAttributeValue"] != 1 {
		t.Errorf("Expected 1 operation, got %d", metrics.OperationCounts["SetAttributeValue"])
	}
	if metrics.ErrorCounts["SetAttributeValue"] != 1 {
		t.Errorf("Expected 1 error, got %d", metrics.ErrorCounts["SetAttributeValue"])
	}
}

func TestCollector_RecordQueries(t *testing.T) {
	c := NewCollector()

	c.RecordQueries("GetEntitiesByType", 2)
	c.RecordQueries("GetEntitiesByType", 1)
	c.RecordQueries("GetEntitiesByType", 0)
	c.RecordQueries("GetEntitiesByType", -1)

	metrics := c.GetStoreMetrics()
	if metrics.QueryCounts["GetEntitiesByType"] != 3 {
		t.Errorf("Expected 3 queries, got %d", metrics.QueryCounts["GetEntitiesByType"])
	}
}

func TestCollector_RecordDuration(t *testing.T) {
	c := NewCollector()

	c.RecordDuration("SearchEntitiesByAttribute", 0.5)
	c.RecordDuration("SearchEntitiesByAttribute", 1.5)

	metrics := c.GetStoreMetrics()
	if metrics.TotalDurationSeconds["SearchEntitiesByAttribute"] != 2.0 {
		t.Errorf("Expected 2.0 seconds total, got %f", metrics.TotalDurationSeconds["SearchEntitiesByAttribute"])
	}
}

func TestCollector_EmptySnapshot(t *testing.T) {
	c := NewCollector()

	metrics := c.GetStoreMetrics()
	if len(metrics.OperationCounts) != 0 {
		t.Errorf("Expected empty operation counts, got %v", metrics.OperationCounts)
	}
	if len(metrics.ErrorCounts) != 0 {
		t.Errorf("Expected empty error counts, got %v", metrics.ErrorCounts)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			operation := fmt.Sprintf("op%d", n%3)
			for j := 0; j < 100; j++ {
				c.RecordOperation(operation)
				c.RecordQueries(operation, 2)
				c.RecordDuration(operation, 0.001)
			}
		}(i)
	}
	wg.Wait()

	metrics := c.GetStoreMetrics()
	var total uint64
	for _, count := range metrics.OperationCounts {
		total += count
	}
	if total != 1000 {
		t.Errorf("Expected 1000 total operations, got %d", total)
	}
	var queries uint64
	for _, count := range metrics.QueryCounts {
		queries += count
	}
	if queries != 2000 {
		t.Errorf("Expected 2000 total queries, got %d", queries)
	}
}
