package geogate

import (
	"time"
)

func getSystemStatus(di *Container, serverStartedAt time.Time) map[string]any {
	uptime := time.Since(serverStartedAt).Round(time.Second)

	return map[string]any{
		"status":           "online",
		"time":             time.Now(),
		"uptime":           uptime.String(),
		"gitHash":          gitHash(),
		"organisationName": di.Config.OrganisationName,
		"applicationName":  di.Config.ApplicationName,
		"instanceName":     di.Config.InstanceName,
		"environment":      di.Config.Environment,

		"web":         di.Config.HTTP,
		"geolocation": di.Config.Geolocation,
		"policy":      di.Config.Policy,
		"notifier":    di.Config.Notifier,
	}
}
