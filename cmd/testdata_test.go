package cmd_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-arrower/geogate/cmd"
)

// newProvider fakes ipinfo.io for 8.8.8.8 and 88.198.1.1.
func newProvider(t *testing.T) *httptest.Server {
	t.Helper()

	fixtures := map[string]string{
		"/8.8.8.8/json":    `{"ip":"8.8.8.8","country":"US","city":"Mountain View","readme":"https://ipinfo.io/missingauth"}`,
		"/88.198.1.1/json": `{"ip":"88.198.1.1","country":"DE","city":"Nuremberg","readme":"https://ipinfo.io/missingauth"}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixtures[r.URL.Path]))
	}))
	t.Cleanup(srv.Close)

	return srv
}

// providerConfig returns a config file path pointing geogate to the fake provider.
func providerConfig(t *testing.T) string {
	t.Helper()

	return cmd.TestConfig(t, map[string]any{
		"geolocation.provider": "ipinfo",
		"geolocation.base_url": newProvider(t).URL,
	})
}
