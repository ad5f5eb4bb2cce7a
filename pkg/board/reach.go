package board

import "github.com/zyedidia/generic/mapset"

// Reachable - BFS по проходимым клеткам от from (включая саму from, если она проходима)
func Reachable(b *Board, from GridPoint) mapset.Set[GridPoint] {
	visited := mapset.New[GridPoint]()
	if k, ok := b.Kind(from); !ok || !k.Passable() {
		return visited
	}

	queue := []GridPoint{from}
	visited.Put(from)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range current.Neighbors() {
			if visited.Has(n) {
				continue
			}
			if k, ok := b.Kind(n); ok && k.Passable() {
				visited.Put(n)
				queue = append(queue, n)
			}
		}
	}
	return visited
}
