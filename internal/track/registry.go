package track

// Entry is a live segment together with the obstacles it owns.
type Entry struct {
	Segment   Segment
	Obstacles []ObstacleHandle
}

// Destroyer removes a segment and its obstacles from the host world.
type Destroyer interface {
	Despawn(seg SegmentHandle, obstacles []ObstacleHandle)
}

// Registry keeps live segments in spawn order. It is a ring buffer that
// only appends at the back and removes from the front.
type Registry struct {
	buf  []Entry
	head int
	size int
}

// NewRegistry creates a registry with room for capacity entries before it
// needs to grow.
func NewRegistry(capacity int) *Registry {
	if capacity < 1 {
		capacity = 16
	}
	return &Registry{buf: make([]Entry, capacity)}
}

// Append adds an entry at the back.
func (r *Registry) Append(e Entry) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = e
	r.size++
}

func (r *Registry) grow() {
	next := make([]Entry, len(r.buf)*2)
	for i := 0; i < r.size; i++ {
		next[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = next
	r.head = 0
}

// PruneFront despawns entries from the front while their trailing edge is
// behind z, stopping at the first entry that is not. Returns the number of
// entries removed.
func (r *Registry) PruneFront(z float64, d Destroyer) int {
	pruned := 0
	for r.size > 0 {
		front := r.buf[r.head]
		if front.Segment.TrailingEdge() >= z {
			break
		}
		d.Despawn(front.Segment.Handle, front.Obstacles)
		r.buf[r.head] = Entry{}
		r.head = (r.head + 1) % len(r.buf)
		r.size--
		pruned++
	}
	return pruned
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.size
}

// At returns the i-th entry counted from the front.
func (r *Registry) At(i int) Entry {
	if i < 0 || i >= r.size {
		panic("track: registry index out of range")
	}
	return r.buf[(r.head+i)%len(r.buf)]
}

// Front returns the oldest entry.
func (r *Registry) Front() (Entry, bool) {
	if r.size == 0 {
		return Entry{}, false
	}
	return r.At(0), true
}

// Back returns the newest entry.
func (r *Registry) Back() (Entry, bool) {
	if r.size == 0 {
		return Entry{}, false
	}
	return r.At(r.size - 1), true
}

// Each calls fn for every entry from front to back until fn returns false.
func (r *Registry) Each(fn func(Entry) bool) {
	for i := 0; i < r.size; i++ {
		if !fn(r.At(i)) {
			return
		}
	}
}
