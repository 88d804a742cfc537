package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckLiveHeadOK(t *testing.T) {
	var sawGet bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			sawGet = true
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewChecker().CheckLive(context.Background(), server.URL, 5*time.Second)
	assert.True(t, res.Live)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, sawGet, "a clean HEAD must not trigger the GET fallback")
}

func TestCheckLiveAmbiguousHeadFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewChecker().CheckLive(context.Background(), server.URL, 5*time.Second)
	assert.True(t, res.Live, "HEAD 403 with a 200 GET is live")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestCheckLiveNotFoundIsDeadWithoutFallback(t *testing.T) {
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets++
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	res := NewChecker().CheckLive(context.Background(), server.URL, 5*time.Second)
	assert.False(t, res.Live)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, 0, gets, "404 is unambiguous, no GET fallback")
}

func TestCheckLiveBothProbesDead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	res := NewChecker().CheckLive(context.Background(), server.URL, 5*time.Second)
	assert.False(t, res.Live)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestCheckLiveTransportErrorIsDead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := NewChecker().CheckLive(context.Background(), url, 2*time.Second)
	assert.False(t, res.Live)
	assert.Equal(t, url, res.FinalURL, "transport failure keeps the original url")
}

func TestCheckLiveRecordsFinalURLAfterRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	res := NewChecker().CheckLive(context.Background(), server.URL, 5*time.Second)
	assert.True(t, res.Live)
	assert.Equal(t, server.URL+"/new", res.FinalURL)
}
