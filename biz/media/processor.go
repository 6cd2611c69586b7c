package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/vega-tools/catalog/pkg/storage"
)

// Job asks the processor to pre-warm WebP renditions for a stored object.
type Job struct {
	Key         string
	ContentType string
}

// Processor generates WebP variants for uploaded attachments in the
// background. Unlike the manager's indexed owner images, attachment keys are
// free-form; a variant of "<dir>/<name>.<ext>" lands at
// "<dir>/<name>_<variant>.webp". Sources that are already WebP are skipped.
type Processor struct {
	store      storage.Storage
	transcoder *Transcoder
	variants   []VariantSpec

	jobs chan Job
	wg   sync.WaitGroup
}

// NewProcessor creates a processor with a bounded queue of the given size.
func NewProcessor(store storage.Storage, variants []VariantSpec, queueSize int) *Processor {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Processor{
		store:      store,
		transcoder: NewTranscoder(),
		variants:   variants,
		jobs:       make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines. Workers stop once Close is called
// and the queue drains, or when ctx is cancelled.
func (p *Processor) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Enqueue submits a job without blocking. Returns false if the queue is
// full; pre-warming is best effort and a dropped job only costs a later
// on-demand transcode.
func (p *Processor) Enqueue(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		hlog.Warnf("media processor queue full, dropping job for %s", job.Key)
		return false
	}
}

// Close stops accepting jobs and waits for in-flight work to finish.
func (p *Processor) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Processor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.process(ctx, job); err != nil {
				hlog.Errorf("media processor failed for %s: %v", job.Key, err)
			}
		}
	}
}

func (p *Processor) process(ctx context.Context, job Job) error {
	if strings.EqualFold(job.ContentType, ContentType) {
		return nil
	}

	obj, err := p.store.GetObject(ctx, job.Key)
	if err != nil {
		return &StoreError{Op: "get", Key: job.Key, Err: err}
	}
	src, err := io.ReadAll(obj)
	obj.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", job.Key, err)
	}

	for _, v := range p.variants {
		out, err := p.transcoder.Transcode(src, v)
		if err != nil {
			return err
		}
		key := DerivedKey(job.Key, v.Name)
		if err := p.store.PutObject(ctx, key, bytes.NewReader(out), ContentType, int64(len(out))); err != nil {
			return &StoreError{Op: "put", Key: key, Err: err}
		}
	}
	return nil
}

// DerivedKey returns the pre-warmed variant key for a source object key.
func DerivedKey(key, variant string) string {
	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)
	return fmt.Sprintf("%s_%s.%s", base, variant, Ext)
}
