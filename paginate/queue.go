package paginate

// workQueue is a front-loaded queue of boxes. It is stored back to front so
// that popping the next box and pushing a run of children ahead of the
// unvisited siblings are both cheap.
type workQueue struct {
	rev []Box
}

func newWorkQueue(boxes []Box) *workQueue {
	q := &workQueue{}
	q.pushFront(boxes)
	return q
}

func (q *workQueue) len() int { return len(q.rev) }

// popFront removes and returns the next box in document order.
func (q *workQueue) popFront() Box {
	n := len(q.rev) - 1
	b := q.rev[n]
	q.rev[n] = nil
	q.rev = q.rev[:n]
	return b
}

// pushFront inserts boxes ahead of everything queued, keeping their order.
func (q *workQueue) pushFront(boxes []Box) {
	for i := len(boxes) - 1; i >= 0; i-- {
		q.rev = append(q.rev, boxes[i])
	}
}
