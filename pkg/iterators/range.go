package iterators

// RangeIterator adapts a [begin, end) pair of forward iterators to the
// positioned cursor shape of package common/iterator, so the bounded,
// filtered and composite adapters can run over any facade. Values are read
// through the references the core hands out.
type RangeIterator[C any, V any, R Reference[V], PC ForwardCore[C, R]] struct {
	begin, end, cur Forward[C, V, R, PC]
}

// NewRangeIterator returns a cursor positioned at begin
func NewRangeIterator[C any, V any, R Reference[V], PC ForwardCore[C, R]](begin, end Forward[C, V, R, PC]) *RangeIterator[C, V, R, PC] {
	return &RangeIterator[C, V, R, PC]{begin: begin, end: end, cur: begin}
}

// SeekToFirst moves the cursor back to begin. Forward iterators are
// multi-pass, so the range can be walked any number of times.
func (r *RangeIterator[C, V, R, PC]) SeekToFirst() {
	r.cur = r.begin
}

// Next advances the cursor and reports whether it is still inside the range
func (r *RangeIterator[C, V, R, PC]) Next() bool {
	if !r.Valid() {
		return false
	}
	r.cur.Inc()
	return r.Valid()
}

// Valid reports whether the cursor has not reached end
func (r *RangeIterator[C, V, R, PC]) Valid() bool {
	return r.cur.NotEqual(r.end)
}

// Value returns the current element, or the zero value at end
func (r *RangeIterator[C, V, R, PC]) Value() V {
	if !r.Valid() {
		var zero V
		return zero
	}
	return r.cur.Value()
}

// Position returns the facade at the cursor's current position
func (r *RangeIterator[C, V, R, PC]) Position() Forward[C, V, R, PC] {
	return r.cur
}
