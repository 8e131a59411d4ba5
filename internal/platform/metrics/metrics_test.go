package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(401, 20*time.Millisecond)
	c.Record(422, 30*time.Millisecond)
	c.Record(503, 40*time.Millisecond)
	c.Record(0, 0)

	snap := c.Snapshot()
	if snap["upstreamCallsTotal"].(uint64) != 5 {
		t.Fatalf("unexpected total %v", snap["upstreamCallsTotal"])
	}
	if snap["upstreamTransportTotal"].(uint64) != 1 {
		t.Fatal("expected one transport failure")
	}
	if snap["upstreamUnauthorized"].(uint64) != 1 {
		t.Fatal("expected one unauthorized call")
	}
	if snap["upstreamClientErrors"].(uint64) != 2 {
		t.Fatalf("expected two client errors, got %v", snap["upstreamClientErrors"])
	}
	if snap["upstreamServerErrors"].(uint64) != 1 {
		t.Fatal("expected one server error")
	}
	if snap["avgDurationMs"].(float64) != 20 {
		t.Fatalf("unexpected average %v", snap["avgDurationMs"])
	}
}

func TestNilCollectorRecordIsNoop(t *testing.T) {
	var c *Collector
	c.Record(200, time.Second)
}
