package queue

import (
	"testing"
)

func TestMemQueueEnqueueDequeueOrder(t *testing.T) {
	q := NewMemQueue(4)

	var ran []string
	t1 := func() { ran = append(ran, "t1") }
	t2 := func() { ran = append(ran, "t2") }

	if !q.Enqueue(t1) || !q.Enqueue(t2) {
		t.Fatalf("expected successful enqueue")
	}

	batch := q.DequeueBatch(1)
	if len(batch) != 1 {
		t.Fatalf("unexpected first batch: %d tasks", len(batch))
	}
	batch[0]()

	remaining := q.DequeueBatch(10)
	if len(remaining) != 1 {
		t.Fatalf("unexpected second batch: %d tasks", len(remaining))
	}
	remaining[0]()

	if len(ran) != 2 || ran[0] != "t1" || ran[1] != "t2" {
		t.Fatalf("tasks ran out of order: %v", ran)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty, got %d", q.Len())
	}
}

func TestMemQueueCapacity(t *testing.T) {
	q := NewMemQueue(2)

	task := func() {}

	if !q.Enqueue(task) || !q.Enqueue(task) {
		t.Fatalf("expected enqueue within capacity")
	}
	if q.Enqueue(task) {
		t.Fatalf("enqueue should fail when capacity exceeded")
	}

	q.DequeueBatch(1)
	if !q.Enqueue(task) {
		t.Fatalf("expected enqueue to succeed after dequeue")
	}
}

func TestMemQueueRejectsNil(t *testing.T) {
	q := NewMemQueue(1)
	if q.Enqueue(nil) {
		t.Fatalf("nil task must be rejected")
	}
}
