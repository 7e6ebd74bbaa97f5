package domain

import (
	"context"
	"errors"
)

var ErrNotificationFailed = errors.New("notification failed")

// Notifier sends a short text to the operators, e.g. into a chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// AllowedNotification is the text operators receive, when a manual validation was allowed.
func AllowedNotification(ip IPAddress, info GeoInfo) string {
	country := info.Country
	if country == "" {
		country = "unknown"
	}

	return "Access allowed for IP " + ip.String() + " from country " + country + "."
}
