// internal/message/message.go
//
// Landing – outbound relay queue.
//
// Context
//   Accepted contact submissions may be forwarded to an upstream webhook
//   (a spreadsheet script, a CRM, a chat channel).  The HTTP handler must not
//   wait on that hop, so EnqueueWebhook drops the payload into a bounded
//   channel and returns.  Run starts a small worker pool that delivers jobs
//   with go-retryablehttp, which retries connection errors and 5xx replies
//   with exponential backoff.
//
// Workflow
//   •  q := message.NewQueue(opts)
//   •  go q.Run(ctx)                       – workers exit when ctx ends.
//   •  q.EnqueueWebhook(ctx, id, payload)  – non-blocking; ErrQueueFull when
//      the buffer is exhausted.
//
// Notes
//   •  Every delivery carries X-Submission-ID so the receiver can dedupe.
//   •  Metrics: contact_relay_deliveries_total{result}, contact_relay_queue_depth.
//
//------------------------------------------------------------------------------

package message

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/landing/internal/metrics"
)

// ErrQueueFull is returned when the buffer cannot take another job.
var ErrQueueFull = errors.New("message: relay queue full")

// SubmissionIDHeader names the dedupe header on relayed requests.
const SubmissionIDHeader = "X-Submission-ID"

// Options configures a Queue.  Zero values take the noted defaults.
type Options struct {
	URL          string
	Headers      map[string]string
	RetryMax     int           // 3
	RetryWaitMin time.Duration // 1s
	RetryWaitMax time.Duration // 30s
	QueueSize    int           // 128
	Workers      int           // 2
	HTTPClient   *http.Client  // optional; tests inject httptest clients
	Log          *zap.SugaredLogger
}

// Webhook is one pending delivery.
type Webhook struct {
	ID   string
	Body []byte
}

// Queue is safe for concurrent use.
type Queue struct {
	url     string
	headers map[string]string
	workers int
	jobs    chan Webhook
	client  *retryablehttp.Client
	log     *zap.SugaredLogger
}

// NewQueue builds a queue.  Nothing is delivered until Run.
func NewQueue(opts Options) *Queue {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 128
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Log == nil {
		opts.Log = zap.S()
	}

	c := retryablehttp.NewClient()
	c.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		c.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		c.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.HTTPClient != nil {
		c.HTTPClient = opts.HTTPClient
	}
	c.Logger = leveled{opts.Log}

	return &Queue{
		url:     opts.URL,
		headers: opts.Headers,
		workers: opts.Workers,
		jobs:    make(chan Webhook, opts.QueueSize),
		client:  c,
		log:     opts.Log,
	}
}

// EnqueueWebhook marshals payload and queues it for delivery.
func (q *Queue) EnqueueWebhook(ctx context.Context, id string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	select {
	case q.jobs <- Webhook{ID: id, Body: body}:
		metrics.RelayQueueDepth.Set(float64(len(q.jobs)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		metrics.RelayDeliveriesTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Depth reports queued, undelivered jobs.
func (q *Queue) Depth() int { return len(q.jobs) }

// Run delivers jobs until ctx ends.  It always returns nil after shutdown so
// it slots into an errgroup next to the HTTP server.
func (q *Queue) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job := <-q.jobs:
					metrics.RelayQueueDepth.Set(float64(len(q.jobs)))
					q.deliverAndRecord(ctx, job)
				}
			}
		})
	}
	q.log.Infow("relay workers started", "workers", q.workers, "url", q.url)
	return g.Wait()
}

func (q *Queue) deliverAndRecord(ctx context.Context, job Webhook) {
	if err := q.Deliver(ctx, job); err != nil {
		metrics.RelayDeliveriesTotal.WithLabelValues("failed").Inc()
		q.log.Errorw("relay delivery failed", "id", job.ID, "err", err)
		return
	}
	metrics.RelayDeliveriesTotal.WithLabelValues("ok").Inc()
	q.log.Debugw("relay delivered", "id", job.ID)
}

// Deliver posts one job synchronously, with retries.
func (q *Queue) Deliver(ctx context.Context, job Webhook) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, q.url, bytes.NewReader(job.Body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SubmissionIDHeader, job.ID)
	for k, v := range q.headers {
		req.Header.Set(k, v)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay: upstream status %d", resp.StatusCode)
	}
	return nil
}

// leveled adapts zap to retryablehttp.LeveledLogger.
type leveled struct{ s *zap.SugaredLogger }

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
