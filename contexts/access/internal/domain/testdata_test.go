package domain_test

// googleDNS returns the answer of the provider for 8.8.8.8.
// A new map is returned on each call, as the readme field gets removed from it.
func googleDNS() map[string]any {
	return map[string]any{
		"ip":       "8.8.8.8",
		"hostname": "dns.google",
		"anycast":  true,
		"city":     "Mountain View",
		"region":   "California",
		"country":  "US",
		"loc":      "37.4056,-122.0775",
		"org":      "AS15169 Google LLC",
		"postal":   "94043",
		"timezone": "America/Los_Angeles",
		"readme":   "https://ipinfo.io/missingauth",
	}
}
