package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLocator_Locate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","city":"Oshakati","lat":-17.7883,"lon":15.7044}`))
	}))
	defer srv.Close()

	pos, err := NewIPLocator(srv.URL).Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -17.7883, pos.Latitude, 1e-9)
	assert.InDelta(t, 15.7044, pos.Longitude, 1e-9)
}

func TestIPLocator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "lookup refused",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "garbage",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewIPLocator(srv.URL).Locate(context.Background())
			assert.ErrorIs(t, err, ErrLocation)
		})
	}
}

func TestIPLocator_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	loc := NewIPLocator(srv.URL)
	loc.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := loc.Locate(context.Background())
	assert.ErrorIs(t, err, ErrLocation)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStaticLocator(t *testing.T) {
	pos, err := StaticLocator{Latitude: -22.56, Longitude: 17.08}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Latitude: -22.56, Longitude: 17.08}, pos)
}

func TestPinnedOr(t *testing.T) {
	fallback := NewIPLocator("http://127.0.0.1:0/unused")

	pinned := PinnedOr(-22.56, 17.08, true, fallback)
	pos, err := pinned.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Latitude: -22.56, Longitude: 17.08}, pos)

	assert.Same(t, fallback, PinnedOr(0, 0, false, fallback))
}
