package engine

import (
	"container/heap"
	"testing"
)

func TestTurnQueue(t *testing.T) {
	pq := make(TurnQueue, 0)
	heap.Init(&pq)

	r1 := &Robot{ID: 1, NextTick: 10}
	r2 := &Robot{ID: 2, NextTick: 5}
	r3 := &Robot{ID: 3, NextTick: 20}

	item1 := &TurnItem{Value: r1, Priority: r1.NextTick, Seq: 1}
	item2 := &TurnItem{Value: r2, Priority: r2.NextTick, Seq: 2}
	item3 := &TurnItem{Value: r3, Priority: r3.NextTick, Seq: 3}

	heap.Push(&pq, item1)
	heap.Push(&pq, item2)
	heap.Push(&pq, item3)

	if pq.Len() != 3 {
		t.Errorf("Expected length 3, got %d", pq.Len())
	}

	// First pop should be r2 (Tick 5)
	first := heap.Pop(&pq).(*TurnItem)
	if first.Value.ID != 2 {
		t.Errorf("Expected robot 2, got %d", first.Value.ID)
	}

	// Current queue: r1(10), r3(20). Moving r1 to 30, new top is r3.
	pq.Update(item1, 30)

	second := heap.Pop(&pq).(*TurnItem)
	if second.Value.ID != 3 {
		t.Errorf("Expected robot 3 (Tick 20), got %d", second.Value.ID)
	}

	third := heap.Pop(&pq).(*TurnItem)
	if third.Value.ID != 1 {
		t.Errorf("Expected robot 1 (Tick 30), got %d", third.Value.ID)
	}
}

func TestTurnQueue_TiesBySpawnOrder(t *testing.T) {
	tm := NewTurnManager()
	for id := 1; id <= 4; id++ {
		tm.Add(&Robot{ID: id, NextTick: 3})
	}

	for want := 1; want <= 4; want++ {
		next := tm.PeekNext()
		if next == nil || next.Value.ID != want {
			t.Fatalf("expected robot %d, got %+v", want, next)
		}
		tm.Remove(next.Value.ID)
	}
	if tm.PeekNext() != nil {
		t.Error("expected empty queue")
	}
}

func TestTurnManager_RemoveAndReschedule(t *testing.T) {
	tm := NewTurnManager()
	a := &Robot{ID: 1, NextTick: 0}
	b := &Robot{ID: 2, NextTick: 1}
	tm.Add(a)
	tm.Add(b)

	a.NextTick = 5
	tm.Reschedule(a)
	if next := tm.PeekNext(); next.Value.ID != 2 {
		t.Fatalf("expected robot 2 first, got %d", next.Value.ID)
	}

	tm.Remove(b.ID)
	tm.Remove(b.ID) // повторное удаление ничего не ломает
	if tm.Len() != 1 {
		t.Fatalf("expected 1 robot, got %d", tm.Len())
	}
	if dump := tm.DebugDump(); len(dump) != 1 || dump[0]["id"] != 1 || dump[0]["priority"] != 5 {
		t.Errorf("unexpected dump %v", dump)
	}
}

func TestTurnManager_RescheduleGoesBehindTies(t *testing.T) {
	tm := NewTurnManager()
	a := &Robot{ID: 1, NextTick: 2}
	b := &Robot{ID: 2, NextTick: 2}
	tm.Add(a)
	tm.Add(b)

	// тик тот же, но a уже сходил: теперь первым b
	tm.Reschedule(a)
	if next := tm.PeekNext(); next.Value.ID != 2 {
		t.Errorf("expected robot 2 first, got %d", next.Value.ID)
	}
}
