package http

import "context"

// CursorFetcher fetches a page of items starting at the given cursor.
// It returns the items, the cursor for the next page (empty when done),
// and any error. The first call receives an empty cursor.
type CursorFetcher[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// CursorIterator provides iteration over cursor-paginated API results,
// as used by GraphQL connections. Pages are fetched lazily.
type CursorIterator[T any] struct {
	fetch  CursorFetcher[T]
	cursor string
	buffer []T
	done   bool
	err    error
}

// NewCursorIterator creates an iterator with the given fetch function.
func NewCursorIterator[T any](fetch CursorFetcher[T]) *CursorIterator[T] {
	return &CursorIterator[T]{fetch: fetch}
}

// Next returns the next item from the iterator.
// Returns the item, true if an item was returned, and any error.
// When iteration is complete, returns (zero, false, nil).
func (p *CursorIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	// Return any previous error
	if p.err != nil {
		return zero, false, p.err
	}

	// Fetch next page if buffer is empty
	if len(p.buffer) == 0 && !p.done {
		items, next, err := p.fetch(ctx, p.cursor)
		if err != nil {
			p.err = err
			return zero, false, err
		}
		p.buffer = items
		p.cursor = next
		p.done = next == ""
	}

	// Return next item from buffer
	if len(p.buffer) == 0 {
		return zero, false, nil
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]

	return item, true, nil
}

// All collects all items from the iterator into a slice.
// This fetches every page and may be slow for large result sets.
func (p *CursorIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, item)
	}
	return all, nil
}
