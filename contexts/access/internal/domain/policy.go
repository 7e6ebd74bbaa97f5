package domain

// RestrictedCountries is the set of country codes denied access.
// It is built once on start and only read afterwards.
type RestrictedCountries struct {
	codes              map[string]struct{}
	denyUnknownCountry bool
}

type PolicyOpt func(*RestrictedCountries)

// WithDenyUnknownCountry denies access, if the provider does not know the country of an ip.
func WithDenyUnknownCountry(deny bool) PolicyOpt {
	return func(rc *RestrictedCountries) {
		rc.denyUnknownCountry = deny
	}
}

func NewRestrictedCountries(codes []string, opts ...PolicyOpt) RestrictedCountries {
	rc := RestrictedCountries{
		codes: make(map[string]struct{}, len(codes)),
	}

	for _, c := range codes {
		rc.codes[c] = struct{}{}
	}

	for _, opt := range opts {
		opt(&rc)
	}

	return rc
}

// Contains reports whether country is restricted.
// The match is exact and case-sensitive.
func (rc RestrictedCountries) Contains(country string) bool {
	_, ok := rc.codes[country]

	return ok
}

// Verdict is the outcome of the policy for one country.
type Verdict struct {
	Denied  bool
	Country string
}

// Evaluate checks the country of info against the restricted set.
func (rc RestrictedCountries) Evaluate(info GeoInfo) Verdict {
	if info.Country == "" && rc.denyUnknownCountry {
		return Verdict{Denied: true, Country: ""}
	}

	return Verdict{
		Denied:  rc.Contains(info.Country),
		Country: info.Country,
	}
}
