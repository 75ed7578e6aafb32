// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/card"
	"github.com/pdiddy/paper-digest/pkg/types"
)

func samplePayload() card.Payload {
	return card.Render([]types.ScoredRecord{
		{PaperRecord: types.PaperRecord{Title: "A", Link: "http://x/a"}, Score: 1},
		{PaperRecord: types.PaperRecord{Title: "B", Link: "http://x/b"}, Score: 0},
	}, 2, "2025-07-14", card.Options{})
}

func newSink(t *testing.T, url string) *Webhook {
	t.Helper()
	w, err := NewWebhook(types.WebhookConfig{URL: url}, nil)
	require.NoError(t, err)
	return w
}

func TestNewWebhookRequiresURL(t *testing.T) {
	_, err := NewWebhook(types.WebhookConfig{URL: "  "}, nil)
	assert.ErrorIs(t, err, ErrNoWebhook)
}

func TestSendSuccess(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"code":0,"msg":"success","data":{}}`))
	}))
	defer ts.Close()

	res, err := newSink(t, ts.URL).Send(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, res.Papers)
	assert.Equal(t, "delivered 2 paper(s)", res.Summary)
	assert.Equal(t, "interactive", got["msg_type"])
}

func TestSendHTTPFailureIsReported(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad card"))
	}))
	defer ts.Close()

	res, err := newSink(t, ts.URL).Send(context.Background(), samplePayload())
	require.NoError(t, err, "a rejected card is not an error")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "bad card", res.Body)
	assert.Contains(t, res.Summary, "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "never retried")
}

func TestSendFeishuErrorCode(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"code zero", `{"code":0,"msg":"success"}`, true},
		{"legacy success", `{"StatusCode":0,"StatusMessage":"success"}`, true},
		{"code error", `{"code":19021,"msg":"sign match fail"}`, false},
		{"legacy error", `{"StatusCode":9499,"StatusMessage":"Bad Request"}`, false},
		{"plain text", `ok`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			res, err := newSink(t, ts.URL).Send(context.Background(), samplePayload())
			require.NoError(t, err)
			assert.Equal(t, tt.ok, res.OK, res.Summary)
		})
	}
}

func TestSendTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newSink(t, url).Send(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posting to webhook")
}

func TestSendEmptyDigest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0}`))
	}))
	defer ts.Close()

	p := card.Render(nil, 0, "2025-07-14", card.Options{})
	res, err := newSink(t, ts.URL).Send(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "delivered 0 paper(s)", res.Summary)
}
