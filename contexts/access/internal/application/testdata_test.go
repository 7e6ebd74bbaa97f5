package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-arrower/geogate/contexts/access/internal/domain"
)

var (
	ctx = context.Background()

	errProviderDown = errors.New("provider down")
	errBotDown      = errors.New("bot down")

	restricted = domain.NewRestrictedCountries([]string{"US", "RU"})

	googleDNS = domain.GeoInfo{
		IP:       "8.8.8.8",
		City:     "Mountain View",
		Region:   "California",
		Country:  "US",
		Loc:      "37.4056,-122.0775",
		Org:      "AS15169 Google LLC",
		Postal:   "94043",
		Timezone: "America/Los_Angeles",
	}
	hetzner = domain.GeoInfo{
		IP:      "88.198.1.1",
		Country: "DE",
	}
)

// fakeResolver resolves from a fixed table and counts the lookups.
type fakeResolver struct {
	mu      sync.Mutex
	infos   map[domain.IPAddress]domain.GeoInfo
	err     error
	lookups int
}

func newFakeResolver(infos ...domain.GeoInfo) *fakeResolver {
	r := &fakeResolver{infos: map[domain.IPAddress]domain.GeoInfo{}}

	for _, i := range infos {
		r.infos[domain.IPAddress(i.IP)] = i
	}

	return r
}

func (r *fakeResolver) Resolve(_ context.Context, ip domain.IPAddress) (domain.GeoInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups++

	if r.err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, r.err)
	}

	return r.infos[ip], nil
}

func (r *fakeResolver) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookups
}

// fakeNotifier records all messages.
type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, text)

	if n.err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, n.err)
	}

	return nil
}

func (n *fakeNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.messages
}
