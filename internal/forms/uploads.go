package forms

import (
	"context"
	"errors"
	"fmt"
)

// ErrUploadSkipped marks items never sent because the queue stopped early.
var ErrUploadSkipped = errors.New("upload skipped")

type PendingUpload struct {
	Kind        string
	FileName    string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	Upload PendingUpload
	Err    error
}

// UploadQueue holds attachments picked while the primary record does not
// exist yet. Flush sends them afterwards, one request each, no retries.
type UploadQueue struct {
	items []PendingUpload
}

func (q *UploadQueue) Add(item PendingUpload) {
	if len(item.Data) == 0 {
		return
	}
	q.items = append(q.items, item)
}

func (q *UploadQueue) Len() int {
	return len(q.items)
}

func (q *UploadQueue) Flush(ctx context.Context, send func(context.Context, PendingUpload) error) []UploadResult {
	return q.FlushUntil(ctx, send, nil)
}

// FlushUntil sends like Flush but gives up after a failure for which stop
// reports true. Items after it come back with ErrUploadSkipped.
func (q *UploadQueue) FlushUntil(ctx context.Context, send func(context.Context, PendingUpload) error, stop func(error) bool) []UploadResult {
	results := make([]UploadResult, 0, len(q.items))
	stopped := false
	for _, item := range q.items {
		if stopped {
			results = append(results, UploadResult{Upload: item, Err: fmt.Errorf("upload %s: %w", item.FileName, ErrUploadSkipped)})
			continue
		}
		err := send(ctx, item)
		if err != nil {
			stopped = stop != nil && stop(err)
			err = fmt.Errorf("upload %s: %w", item.FileName, err)
		}
		results = append(results, UploadResult{Upload: item, Err: err})
	}
	q.items = nil
	return results
}

func FailedUploads(results []UploadResult) []UploadResult {
	var failed []UploadResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
