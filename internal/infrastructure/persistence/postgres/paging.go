package postgres

import "context"

// listPaged runs fetch with increasing offsets until the store returns a
// short page, concatenating the batches. Every list query goes through this
// helper; the fetch closure must carry a stable ORDER BY so pages do not
// overlap or skip rows.
func listPaged[T any](ctx context.Context, pageSize int, fetch func(ctx context.Context, limit, offset int) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		batch, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}
