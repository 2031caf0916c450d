package message

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testQueue(url string, size int) *Queue {
	return NewQueue(Options{
		URL:          url,
		Headers:      map[string]string{"Authorization": "Bearer t"},
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
		QueueSize:    size,
		Workers:      1,
		Log:          zap.NewNop().Sugar(),
	})
}

func TestDeliverSendsHeadersAndBody(t *testing.T) {
	var gotID, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(SubmissionIDHeader)
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
	}))
	defer srv.Close()

	q := testQueue(srv.URL, 1)
	err := q.Deliver(context.Background(), Webhook{ID: "abc", Body: []byte(`{"name":"Ada"}`)})
	require.NoError(t, err)

	assert.Equal(t, "abc", gotID)
	assert.Equal(t, "Bearer t", gotAuth)
	assert.Equal(t, "Ada", gotBody["name"])
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testQueue(srv.URL, 1).Deliver(context.Background(), Webhook{ID: "x", Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestDeliverClientErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := testQueue(srv.URL, 1).Deliver(context.Background(), Webhook{ID: "x", Body: []byte(`{}`)})
	assert.ErrorContains(t, err, "400")
	assert.EqualValues(t, 1, calls.Load())
}

func TestEnqueueFull(t *testing.T) {
	q := testQueue("http://127.0.0.1:1", 1)
	require.NoError(t, q.EnqueueWebhook(context.Background(), "a", map[string]string{}))
	assert.ErrorIs(t, q.EnqueueWebhook(context.Background(), "b", map[string]string{}), ErrQueueFull)
	assert.Equal(t, 1, q.Depth())
}

func TestRunDrainsQueue(t *testing.T) {
	got := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get(SubmissionIDHeader)
	}))
	defer srv.Close()

	q := testQueue(srv.URL, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	require.NoError(t, q.EnqueueWebhook(ctx, "one", struct{}{}))
	require.NoError(t, q.EnqueueWebhook(ctx, "two", struct{}{}))

	for _, want := range []string{"one", "two"} {
		select {
		case id := <-got:
			assert.Equal(t, want, id)
		case <-time.After(2 * time.Second):
			t.Fatalf("delivery %q not received", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
