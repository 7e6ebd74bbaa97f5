package domain

import (
	"context"
	"errors"
	"fmt"
)

var ErrLookupFailed = errors.New("geolocation lookup failed")

// Resolver looks up the geolocation of an ip address.
// Implementations return an error wrapping ErrLookupFailed,
// if the provider could not be reached or answered with an error.
type Resolver interface {
	Resolve(ctx context.Context, ip IPAddress) (GeoInfo, error)
}

// readmeField is the documentation link some providers add to every answer.
const readmeField = "readme"

// GeoInfo is the geolocation of an ip address, as reported by the provider.
type GeoInfo struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

// NewGeoInfo maps the raw answer of a provider.
// The readme field is removed from raw, it is fine if it is not present.
// Missing fields stay empty and non string values are formatted.
func NewGeoInfo(raw map[string]any) GeoInfo {
	delete(raw, readmeField)

	return GeoInfo{
		IP:       field(raw, "ip"),
		City:     field(raw, "city"),
		Region:   field(raw, "region"),
		Country:  field(raw, "country"),
		Loc:      field(raw, "loc"),
		Org:      field(raw, "org"),
		Postal:   field(raw, "postal"),
		Timezone: field(raw, "timezone"),
	}
}

func field(raw map[string]any, key string) string {
	val, ok := raw[key]
	if !ok || val == nil {
		return ""
	}

	if s, ok := val.(string); ok {
		return s
	}

	return fmt.Sprint(val)
}
