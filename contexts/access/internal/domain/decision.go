package domain

import "fmt"

const (
	msgAccessAllowed           = "Access allowed."
	msgAccessRestricted        = "Access restricted for your country %s."
	msgAccessRestrictedUnknown = "Access restricted, your country could not be determined."
)

// Decision is the answer to a client asking for access.
type Decision struct {
	Allowed bool    `json:"allowed"`
	Message string  `json:"message"`
	Info    GeoInfo `json:"info"`
}

func NewDecision(verdict Verdict, info GeoInfo) Decision {
	if verdict.Denied {
		msg := fmt.Sprintf(msgAccessRestricted, verdict.Country)
		if verdict.Country == "" {
			msg = msgAccessRestrictedUnknown
		}

		return Decision{
			Allowed: false,
			Message: msg,
			Info:    info,
		}
	}

	return Decision{
		Allowed: true,
		Message: msgAccessAllowed,
		Info:    info,
	}
}
