package shared

// HistoryBatchSize is how many history entries are revealed per batch.
const HistoryBatchSize = 5

// Pager reveals a fetched snapshot in fixed-size batches without re-querying.
//
// The first batch is visible on construction; [Pager.More] reveals the next one.
type Pager[T any] struct {
	items []T
	size  int
	shown int
}

// NewPager wraps items, showing the first batch. A non-positive size uses [HistoryBatchSize].
func NewPager[T any](items []T, size int) *Pager[T] {
	if size <= 0 {
		size = HistoryBatchSize
	}
	p := &Pager[T]{items: items, size: size}
	p.shown = min(size, len(items))
	return p
}

// Visible returns every entry revealed so far.
func (p *Pager[T]) Visible() []T {
	return p.items[:p.shown]
}

// More reveals the next batch and returns only the newly visible entries, or nil when exhausted.
func (p *Pager[T]) More() []T {
	if !p.HasMore() {
		return nil
	}
	start := p.shown
	p.shown = min(p.shown+p.size, len(p.items))
	return p.items[start:p.shown]
}

// Reveal advances until n batches are visible in total.
func (p *Pager[T]) Reveal(n int) {
	for i := 1; i < n && p.HasMore(); i++ {
		p.More()
	}
}

// HasMore reports whether another batch can be revealed.
func (p *Pager[T]) HasMore() bool {
	return p.shown < len(p.items)
}

// Total is the size of the snapshot.
func (p *Pager[T]) Total() int { return len(p.items) }

// Shown is the number of visible entries.
func (p *Pager[T]) Shown() int { return p.shown }

// Remaining is the number of entries not yet revealed.
func (p *Pager[T]) Remaining() int { return len(p.items) - p.shown }
