package ipapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		assert.Equal(t, "status,message,lat,lon", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"status":"success","lat":13.0827,"lon":80.2707}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	point, err := client.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13.0827, point.Latitude)
	assert.Equal(t, 80.2707, point.Longitude)
}

func TestLocateFailStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Locate(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "private range")
}

func TestLocateForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Locate(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestLocateInvalidCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":999,"lon":80}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Locate(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
