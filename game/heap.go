package game

// WordEntry pairs a candidate word with its difficulty rank.
// Lower difficulty means easier, and easier words surface first.
type WordEntry struct {
	Word       string `json:"word"`
	Difficulty int    `json:"difficulty"`
}

// PriorityPool is an array-backed binary min-heap of word candidates
// ordered by difficulty ascending. Ties are broken arbitrarily.
type PriorityPool struct {
	heap []WordEntry
}

func NewPriorityPool() *PriorityPool {
	return &PriorityPool{}
}

func (p *PriorityPool) Len() int {
	return len(p.heap)
}

// Insert adds a candidate in O(log n).
func (p *PriorityPool) Insert(entry WordEntry) {
	p.heap = append(p.heap, entry)
	p.siftUp(len(p.heap) - 1)
}

// ExtractMin removes and returns the lowest-difficulty candidate in
// O(log n). The second return value is false when the pool is exhausted,
// forcing callers to handle the fallback path explicitly.
func (p *PriorityPool) ExtractMin() (WordEntry, bool) {
	if len(p.heap) == 0 {
		return WordEntry{}, false
	}
	min := p.heap[0]
	last := len(p.heap) - 1
	p.heap[0] = p.heap[last]
	p.heap = p.heap[:last]
	if len(p.heap) > 0 {
		p.siftDown(0)
	}
	return min, true
}

// Peek returns the lowest-difficulty candidate without removing it.
func (p *PriorityPool) Peek() (WordEntry, bool) {
	if len(p.heap) == 0 {
		return WordEntry{}, false
	}
	return p.heap[0], true
}

func (p *PriorityPool) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if p.heap[parent].Difficulty <= p.heap[i].Difficulty {
			break
		}
		p.heap[parent], p.heap[i] = p.heap[i], p.heap[parent]
		i = parent
	}
}

func (p *PriorityPool) siftDown(i int) {
	n := len(p.heap)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smaller := left
		if right := left + 1; right < n && p.heap[right].Difficulty < p.heap[left].Difficulty {
			smaller = right
		}
		if p.heap[i].Difficulty <= p.heap[smaller].Difficulty {
			break
		}
		p.heap[i], p.heap[smaller] = p.heap[smaller], p.heap[i]
		i = smaller
	}
}
