package engine

import (
	"container/heap"

	"gridboard-server/pkg/logger"
)

// TurnManager manages the priority queue of robot turns.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[int]*TurnItem
	seq     int
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[int]*TurnItem),
	}
}

// Add registers a robot in the turn system.
func (tm *TurnManager) Add(r *Robot) {
	tm.seq++
	item := &TurnItem{
		Value:    r,
		Priority: r.NextTick,
		Seq:      tm.seq,
	}

	heap.Push(&tm.queue, item)
	tm.itemMap[r.ID] = item

	logger.Log.WithField("robot_id", r.ID).Debug("Robot added to TurnManager")
}

// Reschedule moves a robot to its current NextTick (e.g. after it acted).
// Среди равных по тику он встает после уже ждущих, включая своих клонов.
func (tm *TurnManager) Reschedule(r *Robot) {
	if item, ok := tm.itemMap[r.ID]; ok {
		tm.seq++
		item.Seq = tm.seq
		tm.queue.Update(item, r.NextTick)
	}
}

// PeekNext returns the robot whose turn is next, without removing it.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// Remove removes a robot from the turn system (e.g. death).
func (tm *TurnManager) Remove(id int) {
	if item, ok := tm.itemMap[id]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, id)
	}
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]any {
	// Пустой слайс, а не nil: в JSON это "[]", а не "null"
	result := make([]map[string]any, 0)

	for _, item := range tm.queue {
		result = append(result, map[string]any{
			"id":       item.Value.ID,
			"x":        item.Value.Pos.X,
			"y":        item.Value.Pos.Y,
			"priority": item.Priority,
			"index":    item.Index,
		})
	}
	return result
}
