package storehub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, opts ...GatewayOption) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGateway(GatewayConfig{
		BaseURL:   srv.URL,
		AccountID: "acme",
		APIKey:    "secret-key",
		Timeout:   5 * time.Second,
	}, nil, opts...)
}

func TestGatewaySendsBasicAuthAndQuery(t *testing.T) {
	var gotUser, gotPass, gotStore string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotStore = r.URL.Query().Get("storeId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"s1","name":"Main"}]`))
	})

	var stores []Store
	err := gw.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/stores",
		Query:  map[string]string{"storeId": "s1"},
	}, &stores)

	require.NoError(t, err)
	assert.Equal(t, "acme", gotUser)
	assert.Equal(t, "secret-key", gotPass)
	assert.Equal(t, "s1", gotStore)
	require.Len(t, stores, 1)
	assert.Equal(t, "Main", stores[0].Name)
}

func TestGatewayClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusConflict, ErrRateLimited},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"upstream says no"}`))
			})

			err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products"}, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "upstream says no", apiErr.Message)
			assert.Equal(t, "/products", apiErr.Path)
		})
	}
}

func TestGatewayNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	gw := NewGateway(GatewayConfig{BaseURL: base, AccountID: "a", APIKey: "k", Timeout: time.Second}, nil)
	err := gw.Do(context.Background(), Request{Path: "/stores"}, nil)

	assert.ErrorIs(t, err, ErrNetwork)
}

func TestGatewayMalformedBodyIsServerError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	var stores []Store
	err := gw.Do(context.Background(), Request{Path: "/stores"}, &stores)

	assert.ErrorIs(t, err, ErrServer)
}

func TestGatewayEmptyBodyIsSuccess(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	created := Customer{RefID: "c1"}
	err := gw.Do(context.Background(), Request{Method: http.MethodPost, Path: "/customers", Body: map[string]string{"firstName": "A"}}, &created)

	require.NoError(t, err)
	assert.Equal(t, "c1", created.RefID)
}

func TestGatewayLimiterSpacesCalls(t *testing.T) {
	var calls atomic.Int32
	gw := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}, WithLimiter(rate.NewLimiter(rate.Every(50*time.Millisecond), 1)))

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, gw.Do(context.Background(), Request{Path: "/stores"}, nil))
	}

	assert.Equal(t, int32(3), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestGatewayLimiterWaitHonoursContext(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	require.NoError(t, gw.Do(context.Background(), Request{Path: "/stores"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := gw.Do(ctx, Request{Path: "/stores"}, nil)

	assert.ErrorIs(t, err, ErrNetwork)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", errorMessage(nil))
	assert.Equal(t, "bad field", errorMessage([]byte(`{"error":"bad field"}`)))
	assert.Equal(t, "code 42", errorMessage([]byte(`{"code":42}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text")))

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, errorMessage(long), maxErrorBody+3)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "inventory", resourceOf("/inventory/store-1"))
	assert.Equal(t, "stores", resourceOf("/stores"))
	assert.Equal(t, "root", resourceOf("/"))
}
