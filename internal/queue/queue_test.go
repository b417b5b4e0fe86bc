package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msg, err := NewMarkedMessage(MarkedEvent{SubjectID: "subjX", Date: "2024-01-10"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := q.Publish(ctx, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	select {
	case got := <-out:
		if got.Type != TypeMarked {
			t.Fatalf("type = %s, want %s", got.Type, TypeMarked)
		}
		evt, err := DecodeMarked(got)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.SubjectID != "subjX" || evt.Date != "2024-01-10" {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	q := NewInMemory(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Publish(ctx, Message{Type: "x"}); err == nil {
		t.Fatal("publish into a full queue with cancelled context must fail")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	in := Message{Type: TypeMarked, Body: []byte(`{"subjectId":"a|b"}`)}
	out, err := deserialize(serialize(in))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if out.Type != in.Type {
		t.Fatalf("type = %s, want %s", out.Type, in.Type)
	}
	if string(out.Body) != string(in.Body) {
		t.Fatalf("body = %s, want %s", out.Body, in.Body)
	}
}
