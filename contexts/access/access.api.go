// Package access is the intraprocess API of what this Context is exposing to other Contexts to use.
package access

import (
	"context"
	"errors"
)

var (
	ErrInvalidIP    = errors.New("invalid ip address format")
	ErrLookupFailed = errors.New("could not get country for ip")
)

const (
	RouteCheckCountry   = "access.check_country"
	RouteManualValidate = "access.manual_validate"
	RouteValidate       = "access.validate"
	RouteClientIP       = "access.client_ip"
	RouteWebAppResult   = "access.webapp_result"
)

// API is the api of the access Context.
type API interface {
	// Check decides if ip gets access. A denied access is not an error.
	Check(ctx context.Context, ip string) (Decision, error)
}

type Decision struct {
	Allowed bool    `json:"allowed"`
	Message string  `json:"message"`
	Info    GeoInfo `json:"info"`
}

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
