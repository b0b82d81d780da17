package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/breeds/image/random", r.URL.Path)
		n := hits.Add(1)
		fmt.Fprintf(w, `{"message":"https://images.dog.ceo/breeds/pug/%d.jpg","status":"success"}`, n)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	urls, err := c.Random(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, urls, 5)
	assert.Equal(t, int32(5), hits.Load())

	seen := map[string]bool{}
	for _, u := range urls {
		assert.NotEmpty(t, u)
		seen[u] = true
	}
	assert.Len(t, seen, 5)
}

func TestRandom_Zero(t *testing.T) {
	urls, err := NewClient("http://127.0.0.1:1", time.Second).Random(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, urls)
}

func TestRandom_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"message":`)
		}},
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"message":"Breed not found","status":"error"}`)
		}},
		{"empty message", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"message":"","status":"success"}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			urls, err := NewClient(srv.URL, time.Second).Random(context.Background(), 3)
			assert.ErrorIs(t, err, ErrFetch)
			assert.Nil(t, urls)
		})
	}
}

func TestRandom_OneFailureFailsAll(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 2 {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"message":"ok","status":"success"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Random(context.Background(), 4)
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), ErrFetch.Error())
}

func TestRandom_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Random(context.Background(), 2)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 30*time.Second, c.HTTPClient.Timeout)
}
