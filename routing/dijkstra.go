package routing

import "container/heap"

// pqItem is one entry in the Dijkstra priority queue. Stale entries
// (superseded by a cheaper path found later) are left in place rather
// than mutated — the lazy-deletion pattern spec.md §9 recommends:
// "push duplicates, skip already-visited on pop", avoiding the need
// for a mutable decrease-key heap.
type pqItem struct {
	addr Address
	dist Cost
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)         { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// shortestPaths runs Dijkstra from source over graph, a directed
// weighted adjacency map (spec.md §4.C: "edges are (o -> v, cost) for
// every (v, cost) in lsdb[o].link_state"). It returns the distance to
// every reachable vertex and, for each, the predecessor on the
// shortest path from source.
func shortestPaths(graph map[Address]map[Address]Cost, source Address) (dist map[Address]Cost, prev map[Address]Address) {
	dist = map[Address]Cost{source: 0}
	prev = make(map[Address]Address)
	visited := make(map[Address]bool)

	pq := &priorityQueue{{addr: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(pqItem)
		if visited[current.addr] {
			continue // stale entry, a cheaper path already won
		}
		visited[current.addr] = true

		for neighbor, cost := range graph[current.addr] {
			candidate := current.dist + cost
			if best, known := dist[neighbor]; known && best <= candidate {
				continue
			}
			dist[neighbor] = candidate
			prev[neighbor] = current.addr
			heap.Push(pq, pqItem{addr: neighbor, dist: candidate})
		}
	}

	return dist, prev
}

// firstHop walks prev back from dest to the neighbor of source that
// the shortest path leaves through. It returns false if dest is
// unreachable or is source itself.
func firstHop(prev map[Address]Address, source, dest Address) (Address, bool) {
	if dest == source {
		return "", false
	}
	node := dest
	for {
		p, ok := prev[node]
		if !ok {
			return "", false
		}
		if p == source {
			return node, true
		}
		node = p
	}
}
