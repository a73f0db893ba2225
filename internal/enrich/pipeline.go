// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"sync"

	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// DefaultConcurrency is the worker-pool size when the caller does not set one.
const DefaultConcurrency = 5

// Run resolves all records with a bounded worker pool and returns one
// result per input row, in input order.
//
// Each record's RowIndex addresses its slot in a result slice pre-sized
// before any worker starts; workers write only their own slot, so the
// slice needs no locking and completion order can never change output
// position. RowIndex values must therefore be unique and within
// [0, len(records)) — in the normal case records[i].RowIndex == i.
//
// Cancellation is cooperative: workers check ctx before each row. On
// cancellation the already-computed results are returned as-is, untouched
// rows keep the manual-review verdict they were pre-filled with, and
// ctx.Err() is returned. The pool bound is the only backpressure
// mechanism; excess rows queue for a free worker.
func Run(ctx context.Context, records []types.InputRecord, resolver *Resolver, concurrency int) ([]types.ResultRecord, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(records) {
		concurrency = len(records)
	}

	results := make([]types.ResultRecord, len(records))
	for _, rec := range records {
		results[rec.RowIndex] = types.ResultRecord{
			RowIndex: rec.RowIndex,
			Verdict:  types.VerdictManualReview,
		}
	}

	jobs := make(chan types.InputRecord)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[rec.RowIndex] = resolver.Resolve(ctx, rec)
			}
		}()
	}

	var cancelled bool
feed:
	for _, rec := range records {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- rec:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled || ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}
