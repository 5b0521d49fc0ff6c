package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

func TestClient_Endpoints(t *testing.T) {
	var (
		mu       sync.Mutex
		gotPaths []string
		gotBody  remainingRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPaths = append(gotPaths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		_ = json.NewEncoder(w).Encode([]Organisation{{ReferenceNumber: "100", CompaniesHouseNumber: "01234567"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithRetryPolicy(fastRetry))
	ctx := context.Background()

	orgs, err := c.GetByOrganisation(ctx, "100")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "01234567", orgs[0].CompaniesHouseNumber)

	_, err = c.GetByProducer(ctx, "p1")
	require.NoError(t, err)
	_, err = c.GetComplianceSchemeMembers(ctx, "100", "cs1")
	require.NoError(t, err)
	_, err = c.GetRemainingProducerDetails(ctx, []string{"100", "200"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /organisations/100",
		"GET /producers/p1/organisations",
		"GET /compliance-schemes/cs1/members/100",
		"POST /producers/remaining",
	}, gotPaths)
	assert.Equal(t, []string{"100", "200"}, gotBody.ReferenceNumbers)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	orgs, err := NewClient(srv.URL).GetByOrganisation(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, orgs)
}

func TestClient_RemainingWithNoIDs(t *testing.T) {
	orgs, err := NewClient("http://127.0.0.1:0").GetRemainingProducerDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, orgs)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode([]Organisation{{ReferenceNumber: "100"}})
	}))
	defer srv.Close()

	orgs, err := NewClient(srv.URL, WithRetryPolicy(fastRetry)).GetByProducer(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_TransportError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithRetryPolicy(fastRetry)).GetByOrganisation(context.Background(), "100")
	var te *TransportError
	require.True(t, errors.As(err, &te), "err = %v", err)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "first attempt plus two retries")
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithRetryPolicy(fastRetry)).GetByOrganisation(context.Background(), "100")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, te.Temporary())
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithRetryPolicy(RetryPolicy{})).GetByOrganisation(context.Background(), "100")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetByOrganisation(context.Background(), "100")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestClient_CanceledContextIsNotTransportError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:0").GetByOrganisation(ctx, "100")
	require.ErrorIs(t, err, context.Canceled)
	var te *TransportError
	assert.False(t, errors.As(err, &te))
}

func TestBackoff(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, p.backoff(0))
	assert.Equal(t, 200*time.Millisecond, p.backoff(1))
	assert.Equal(t, 300*time.Millisecond, p.backoff(2))
}

func TestIndex(t *testing.T) {
	idx := Index([]Organisation{{ReferenceNumber: "1", CompaniesHouseNumber: "A"}, {ReferenceNumber: "1", CompaniesHouseNumber: "B"}})
	assert.Len(t, idx, 1)
	assert.Equal(t, "A", idx["1"].CompaniesHouseNumber)
}
