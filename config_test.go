package geogate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate"
)

func TestDefaultViper(t *testing.T) {
	t.Parallel()

	vip := geogate.DefaultViper()
	assert.NotEmpty(t, vip)

	// This test enforces the default values, so whenever they change,
	// make sure to also update config.example.yaml!

	assert.Empty(t, vip.Get("organisation_name"))
	assert.Equal(t, "geogate", vip.GetString("application_name"))
	assert.Empty(t, vip.Get("instance_name"))

	assert.Equal(t, geogate.LocalEnv, geogate.Environment(vip.GetString("environment")))

	assert.Equal(t, 8080, vip.GetInt("http.port"))
	assert.True(t, vip.GetBool("http.status_endpoint_enabled"))
	assert.Equal(t, 2223, vip.GetInt("http.status_endpoint_port"))
	assert.False(t, vip.GetBool("http.trust_forwarded_for"))
	assert.False(t, vip.GetBool("http.expose_error_details"))

	assert.Equal(t, geogate.IPInfoProvider, vip.GetString("geolocation.provider"))
	assert.Equal(t, "https://ipinfo.io", vip.GetString("geolocation.base_url"))
	assert.Empty(t, vip.GetString("geolocation.db_path"))

	assert.Equal(t, geogate.DefaultRestrictedCountries(), vip.GetStringSlice("policy.restricted_countries"))
	assert.False(t, vip.GetBool("policy.deny_unknown_country"))

	assert.False(t, vip.GetBool("notifier.enabled"))
	assert.Equal(t, "https://api.telegram.org", vip.GetString("notifier.api_url"))
	assert.Empty(t, vip.GetString("notifier.token"))
	assert.Empty(t, vip.GetString("notifier.chat_id"))

	assert.Equal(t, "localhost", vip.GetString("otel.host"))
	assert.Equal(t, 4317, vip.GetInt("otel.port"))
	assert.Equal(t, "", vip.GetString("otel.hostname"))
}

func TestDefaultRestrictedCountries(t *testing.T) {
	t.Parallel()

	countries := geogate.DefaultRestrictedCountries()

	assert.Len(t, countries, 34)
	assert.Contains(t, countries, "US")
	assert.Contains(t, countries, "RU")
	assert.NotContains(t, countries, "DE")
}

func TestDefaultViper_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		conf := geogate.Config{}

		err := geogate.DefaultViper().Unmarshal(&conf)
		assert.NoError(t, err)
		assert.Equal(t, geogate.LocalEnv, conf.Environment)
		assert.Equal(t, geogate.DefaultRestrictedCountries(), conf.Policy.RestrictedCountries)
		assert.True(t, conf.Notifier.Token.IsEmpty())
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()

		vip := geogate.DefaultViper()
		vip.SetConfigFile("./testdata/config/invalid-config.yaml")
		err := vip.ReadInConfig()
		assert.NoError(t, err)

		conf := geogate.Config{}

		err = vip.Unmarshal(&conf)
		assert.Error(t, err, "should fail when using unsupported enum values")
		assert.Contains(t, err.Error(), "use one of: ", "error message should list out all accepted environments")
	})

	t.Run("config file", func(t *testing.T) {
		t.Parallel()

		vip := geogate.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		assert.NoError(t, err)

		conf := geogate.Config{}

		err = vip.Unmarshal(&conf)
		assert.NoError(t, err)
		assert.Equal(t, geogate.TestEnv, conf.Environment)
		assert.Equal(t, 8081, conf.HTTP.Port)
		assert.True(t, conf.HTTP.TrustForwardedFor)
		assert.Equal(t, "http://localhost:9999", conf.Geolocation.BaseURL)
		assert.Equal(t, []string{"US", "RU"}, conf.Policy.RestrictedCountries)
		assert.True(t, conf.Policy.DenyUnknownCountry)
		assert.True(t, conf.Notifier.Enabled)
		assert.Equal(t, "42", conf.Notifier.ChatID)
	})

	t.Run("unmarshal bot token secret", func(t *testing.T) {
		t.Parallel()

		vip := geogate.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		assert.NoError(t, err)

		conf := geogate.Config{}

		err = vip.Unmarshal(&conf)
		assert.NoError(t, err)
		assert.Equal(t, "my-bot-token", conf.Notifier.Token.Secret())
		assert.Equal(t, "******", conf.Notifier.Token.String())
	})

	t.Run("custom config", func(t *testing.T) {
		t.Parallel()

		type MyConfig struct {
			SomeStructField struct{ A string }
			geogate.Config  `mapstructure:",squash"`
		}

		vip := geogate.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		assert.NoError(t, err)

		conf := MyConfig{}

		err = vip.Unmarshal(&conf)
		assert.NoError(t, err)
		assert.Equal(t, "my-bot-token", conf.Notifier.Token.Secret())
	})

	t.Run("not a config", func(t *testing.T) {
		t.Parallel()

		conf := struct{ A string }{}

		err := geogate.DefaultViper().Unmarshal(&conf)
		assert.Error(t, err)
	})
}

func TestDefaultViper_Env(t *testing.T) {
	t.Setenv("GEOGATE_HTTP_PORT", "9090")
	t.Setenv("GEOGATE_NOTIFIER_TOKEN", "env-token")

	vip := geogate.DefaultViper()
	conf := geogate.Config{}

	err := vip.Unmarshal(&conf)
	assert.NoError(t, err)
	assert.Equal(t, 9090, conf.HTTP.Port)
	assert.Equal(t, "env-token", conf.Notifier.Token.Secret())
}
