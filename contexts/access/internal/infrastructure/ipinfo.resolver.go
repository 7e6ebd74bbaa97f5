package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-arrower/geogate/contexts/access/internal/domain"
)

const DefaultIPInfoURL = "https://ipinfo.io"

// NewIPInfoResolver returns a Resolver asking ipinfo.io or any service answering in the same format.
// If client is nil, http.DefaultClient is used.
func NewIPInfoResolver(baseURL string, client *http.Client) *IPInfoResolver {
	if baseURL == "" {
		baseURL = DefaultIPInfoURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &IPInfoResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

type IPInfoResolver struct {
	client  *http.Client
	baseURL string
}

var _ domain.Resolver = (*IPInfoResolver)(nil)

// Resolve does exactly one request, there are no retries and no cache.
func (r *IPInfoResolver) Resolve(ctx context.Context, ip domain.IPAddress) (domain.GeoInfo, error) {
	url := fmt.Sprintf("%s/%s/json", r.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	req.Header.Set("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: could not read body: %v", domain.ErrLookupFailed, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return domain.GeoInfo{}, fmt.Errorf("%w: provider answered with status %d", domain.ErrLookupFailed, res.StatusCode)
	}

	var raw map[string]any

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &raw); err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: invalid json: %v", domain.ErrLookupFailed, err)
	}

	if raw == nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: empty answer", domain.ErrLookupFailed)
	}

	if perr, ok := raw["error"]; ok {
		return domain.GeoInfo{}, fmt.Errorf("%w: provider error: %v", domain.ErrLookupFailed, perr)
	}

	return domain.NewGeoInfo(raw), nil
}
