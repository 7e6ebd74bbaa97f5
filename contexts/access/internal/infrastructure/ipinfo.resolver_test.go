package infrastructure_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate/contexts/access/internal/domain"
	"github.com/go-arrower/geogate/contexts/access/internal/infrastructure"
)

func TestNewIPInfoResolver(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, infrastructure.NewIPInfoResolver("", nil))
}

func TestIPInfoResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("resolve ip", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/8.8.8.8/json", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(googleDNSFixture))
		}))
		defer srv.Close()

		resolver := infrastructure.NewIPInfoResolver(srv.URL+"/", srv.Client())

		info, err := resolver.Resolve(ctx, "8.8.8.8")
		assert.NoError(t, err)
		assert.Equal(t, domain.GeoInfo{
			IP:       "8.8.8.8",
			City:     "Mountain View",
			Region:   "California",
			Country:  "US",
			Loc:      "37.4056,-122.0775",
			Org:      "AS15169 Google LLC",
			Postal:   "94043",
			Timezone: "America/Los_Angeles",
		}, info)
	})

	t.Run("ip is passed verbatim", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/010.1.1.1/json", r.URL.Path)

			_, _ = w.Write([]byte(`{"ip":"010.1.1.1"}`))
		}))
		defer srv.Close()

		resolver := infrastructure.NewIPInfoResolver(srv.URL, srv.Client())

		info, err := resolver.Resolve(ctx, "010.1.1.1")
		assert.NoError(t, err)
		assert.Empty(t, info.Country)
	})

	failures := []struct {
		testName string
		handler  http.HandlerFunc
	}{
		{
			"provider error status",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			"provider error object",
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":{"title":"Wrong ip","message":"Please provide a valid IP address"}}`))
			},
		},
		{
			"not json",
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
		},
		{
			"null body",
			func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`null`))
			},
		},
	}

	for _, tt := range failures {
		t.Run(tt.testName, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			resolver := infrastructure.NewIPInfoResolver(srv.URL, srv.Client())

			info, err := resolver.Resolve(ctx, "8.8.8.8")
			assert.ErrorIs(t, err, domain.ErrLookupFailed)
			assert.Empty(t, info)
		})
	}

	t.Run("provider not reachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		resolver := infrastructure.NewIPInfoResolver(url, nil)

		_, err := resolver.Resolve(ctx, "8.8.8.8")
		assert.ErrorIs(t, err, domain.ErrLookupFailed)
	})

	t.Run("cancelled request", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(googleDNSFixture))
		}))
		defer srv.Close()

		resolver := infrastructure.NewIPInfoResolver(srv.URL, srv.Client())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := resolver.Resolve(cancelled, "8.8.8.8")
		assert.ErrorIs(t, err, domain.ErrLookupFailed)
	})
}
