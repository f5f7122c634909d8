package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWorker создает воркер без Redis и без реальных пауз между попытками
func newTestWorker(t *testing.T, cfg *config.Config) (*WebhookWorker, *[]time.Duration) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	w := NewWebhookWorker(nil, logger, cfg)
	var sleeps []time.Duration
	w.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return w, &sleeps
}

func TestProcessEvent_SignedDelivery(t *testing.T) {
	payload := `{"request_id":"req-1"}`
	var gotSignature, gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	worker, sleeps := newTestWorker(t, &config.Config{
		WebhookURL:        srv.URL,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Second,
	})

	ok := worker.processEvent(context.Background(), PlanEvent{RequestID: "req-1"}, payload)

	require.True(t, ok)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "s3cret"), gotSignature)
	assert.Empty(t, *sleeps)
}

func TestProcessEvent_RetriesWithBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker, sleeps := newTestWorker(t, &config.Config{
		WebhookURL:        srv.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  100 * time.Millisecond,
	})

	ok := worker.processEvent(context.Background(), PlanEvent{RequestID: "req-2"}, `{}`)

	require.True(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *sleeps)
}

func TestProcessEvent_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	worker, sleeps := newTestWorker(t, &config.Config{
		WebhookURL:        srv.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 2,
		WebhookBaseDelay:  time.Millisecond,
	})

	assert.False(t, worker.processEvent(context.Background(), PlanEvent{}, `{}`))
	assert.Len(t, *sleeps, 1)
}

func TestProcessEvent_NoURL(t *testing.T) {
	worker, _ := newTestWorker(t, &config.Config{})

	assert.False(t, worker.processEvent(context.Background(), PlanEvent{}, `{}`))
}

func TestGenerateHMACSHA256(t *testing.T) {
	// Значение из RFC 4231, тестовый случай 2
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		generateHMACSHA256("what do ya want for nothing?", "Jefe"))
}
