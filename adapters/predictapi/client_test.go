package predictapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"heartdash/domain/payload"
	"heartdash/domain/prediction"
	"heartdash/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError, io.Discard)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/predict", 0, quietLogger())
	require.NoError(t, err)
	return client, &calls
}

func TestPredict_ReturnsLabel(t *testing.T) {
	var got url.Values
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"prediction": 1}`)
	})

	p := payload.Payload{"id": int64(1), "sex": 1, "dataset": "Hungary", "fbs": false}
	label, err := client.Predict(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, prediction.Label("1"), label)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, url.Values{
		"id":      {"1"},
		"sex":     {"1"},
		"dataset": {"Hungary"},
		"fbs":     {"false"},
	}, got)
}

func TestPredict_StringLabel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"prediction": "high risk"}`)
	})

	label, err := client.Predict(context.Background(), payload.Payload{})
	require.NoError(t, err)
	assert.Equal(t, prediction.Label("high risk"), label)
}

func TestPredict_MissingPredictionIsEmptyLabel(t *testing.T) {
	bodies := []string{`{}`, `{"prediction": null}`, `{"label": 3}`, `not json`, ``}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			label, err := client.Predict(context.Background(), payload.Payload{"id": int64(0)})
			require.NoError(t, err)
			assert.True(t, label.IsEmpty())
		})
	}
}

func TestPredict_NonOKStatus(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "internal error")
	})

	label, err := client.Predict(context.Background(), payload.Payload{"id": int64(1)})

	require.Error(t, err)
	assert.True(t, label.IsEmpty())

	var reqErr *prediction.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 500, reqErr.StatusCode)
	assert.Equal(t, "internal error", reqErr.Body)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal error")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retry expected")
}

func TestPredict_UnprocessableIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":[{"loc":["query","age"],"msg":"field required"}]}`)
	})

	_, err := client.Predict(context.Background(), payload.Payload{})

	var reqErr *prediction.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "field required")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestPredict_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/predict"
	srv.Close()

	client, err := NewClient(endpoint, 0, quietLogger())
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), payload.Payload{"id": int64(1)})

	var reqErr *prediction.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, reqErr.IsTransport())
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Error(t, reqErr.Err)
}

func TestPredict_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewClient(srv.URL, 50*time.Millisecond, quietLogger())
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), payload.Payload{})

	var reqErr *prediction.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, reqErr.IsTransport())
}

func TestPredict_KeepsEndpointQuery(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = io.WriteString(w, `{"prediction": 0}`)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/predict?model=rf", 0, quietLogger())
	require.NoError(t, err)

	label, err := client.Predict(context.Background(), payload.Payload{"age": int64(54)})
	require.NoError(t, err)
	assert.Equal(t, prediction.Label("0"), label)
	assert.Equal(t, "rf", got.Get("model"))
	assert.Equal(t, "54", got.Get("age"))
}

func TestNewClient_RejectsBadEndpoint(t *testing.T) {
	_, err := NewClient("ftp://example.com/predict", 0, quietLogger())
	assert.Error(t, err)

	_, err = NewClient("://", 0, quietLogger())
	assert.Error(t, err)
}
