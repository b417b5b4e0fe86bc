package httpmiddleware

import (
	"testing"
	"time"
)

func TestTokenBucketExhausts(t *testing.T) {
	l := NewSimpleTokenBucket(2, 2)
	if !l.allow("ip1") || !l.allow("ip1") {
		t.Fatal("first two requests must pass")
	}
	if l.allow("ip1") {
		t.Fatal("third request must be limited")
	}
	if !l.allow("ip2") {
		t.Fatal("a different key has its own bucket")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	if !l.allow("ip1") {
		t.Fatal("first request must pass")
	}
	if l.allow("ip1") {
		t.Fatal("bucket empty")
	}
	// 60/min refills one token per second.
	l.state["ip1"].last = time.Now().Add(-2 * time.Second)
	if !l.allow("ip1") {
		t.Fatal("bucket must refill after idle time")
	}
}

func TestPruneDropsStaleBuckets(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	l.allow("stale")
	l.allow("fresh")
	l.state["stale"].last = time.Now().Add(-2 * time.Hour)

	l.mu.Lock()
	l.prune(time.Now())
	l.mu.Unlock()

	if _, ok := l.state["stale"]; ok {
		t.Fatal("stale bucket must be pruned")
	}
	if _, ok := l.state["fresh"]; !ok {
		t.Fatal("fresh bucket must survive")
	}
}
