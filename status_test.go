package geogate

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate/secret"
)

func TestGetSystemStatus(t *testing.T) {
	t.Parallel()

	di := &Container{Config: &Config{
		ApplicationName: "geogate",
		Environment:     TestEnv,
		Notifier: Notifier{
			Enabled: true,
			Token:   secret.New("my-bot-token"),
		},
	}}

	status := getSystemStatus(di, time.Now().Add(-time.Minute))
	assert.Equal(t, "online", status["status"])
	assert.Equal(t, "1m0s", status["uptime"])

	b, err := jsoniter.Marshal(status)
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"applicationName":"geogate"`)
	assert.NotContains(t, string(b), "my-bot-token", "the bot token should never be exposed")
}
