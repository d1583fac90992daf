package pipeline

import (
	"context"

	"github.com/mager/moodboard/moodboard"
)

// PageFunc fetches one page of a limit/offset collection and reports the
// total size of the collection.
type PageFunc[T any] func(ctx context.Context, limit, offset int) (items []T, total int, err error)

// DefaultPageSize matches the catalog's maximum page size.
const DefaultPageSize = 50

// FetchAll walks a limit/offset endpoint until every item has been
// retrieved. The total is latched from the first response and never
// re-read, so a collection that mutates mid-walk cannot extend or shrink
// the walk. Any failed page aborts the whole walk with an UpstreamError;
// no partial result is returned.
func FetchAll[T any](ctx context.Context, endpoint string, pageSize int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []T
	offset := 0
	total := -1

	for {
		items, pageTotal, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return nil, &moodboard.UpstreamError{Endpoint: endpoint, Err: err}
		}
		if total < 0 {
			total = pageTotal
		}
		all = append(all, items...)

		offset += pageSize
		if offset >= total {
			return all, nil
		}
	}
}

// FetchPage retrieves a single page, for feeds where only the most recent
// window matters.
func FetchPage[T any](ctx context.Context, endpoint string, limit int, fetch PageFunc[T]) ([]T, error) {
	items, _, err := fetch(ctx, limit, 0)
	if err != nil {
		return nil, &moodboard.UpstreamError{Endpoint: endpoint, Err: err}
	}
	return items, nil
}
