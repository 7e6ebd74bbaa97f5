package geogate

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/go-arrower/geogate/secret"
)

// Config is a structure used for service configuration.
// It is intended to be mapped by viper.
type Config struct {
	OrganisationName string `mapstructure:"organisation_name"`
	ApplicationName  string `mapstructure:"application_name"`
	InstanceName     string `mapstructure:"instance_name"`

	Environment Environment `mapstructure:"environment"`

	HTTP        HTTP        `mapstructure:"http"`
	Geolocation Geolocation `mapstructure:"geolocation"`
	Policy      Policy      `mapstructure:"policy"`
	Notifier    Notifier    `mapstructure:"notifier"`
	OTEL        OTEL        `mapstructure:"otel"`
}

const (
	LocalEnv       Environment = "local"
	TestEnv        Environment = "test"
	DevelopmentEnv Environment = "dev"
	ProductionEnv  Environment = "prod"
)

// Environments is the list of all supported environments.
func Environments() []Environment {
	return []Environment{LocalEnv, TestEnv, DevelopmentEnv, ProductionEnv}
}

type Environment string

const (
	IPInfoProvider      = "ipinfo"
	IP2LocationProvider = "ip2location"
)

type (
	HTTP struct {
		Port                  int  `mapstructure:"port"                    json:"port"`
		StatusEndpointEnabled bool `mapstructure:"status_endpoint_enabled" json:"-"`
		StatusEndpointPort    int  `mapstructure:"status_endpoint_port"    json:"-"`
		// TrustForwardedFor takes the client address from the X-Forwarded-For header.
		// Only enable it if the gateway runs behind a proxy setting the header.
		TrustForwardedFor  bool `mapstructure:"trust_forwarded_for"  json:"trustForwardedFor"`
		ExposeErrorDetails bool `mapstructure:"expose_error_details" json:"exposeErrorDetails"`
	}

	Geolocation struct {
		// Provider is one of IPInfoProvider or IP2LocationProvider.
		Provider string `mapstructure:"provider" json:"provider"`
		BaseURL  string `mapstructure:"base_url" json:"baseURL"`
		DBPath   string `mapstructure:"db_path"  json:"dbPath"`
	}

	Policy struct {
		RestrictedCountries []string `mapstructure:"restricted_countries" json:"restrictedCountries"`
		DenyUnknownCountry  bool     `mapstructure:"deny_unknown_country" json:"denyUnknownCountry"`
	}

	Notifier struct {
		Enabled bool          `mapstructure:"enabled"      json:"enabled"`
		APIURL  string        `mapstructure:"api_url"      json:"apiURL"`
		Token   secret.Secret `mapstructure:"token,squash" json:"-"`
		ChatID  string        `mapstructure:"chat_id"      json:"chatID"`
	}

	OTEL struct {
		Host     string `mapstructure:"host"     json:"host"`
		Port     int    `mapstructure:"port"     json:"port"`
		Hostname string `mapstructure:"hostname" json:"hostname"`
	}
)

// DefaultRestrictedCountries returns the ISO 3166 alpha-2 codes denied access,
// if no other list is configured.
func DefaultRestrictedCountries() []string {
	return []string{
		"CA", "US", "AS", "GU", "MP", "PR", "VI",
		"FR", "GF", "PF", "GP", "MQ", "YT", "RE", "BL", "MF", "PM", "WF",
		"NL", "AW", "CW", "SX", "BQ",
		"SS", "SB", "TR", "CU", "IR", "KP", "KR", "SD", "SY", "UA", "RU",
	}
}

// DefaultViper returns a new viper instance with all default values
// from Config set.
// Every key can be overwritten by an environment variable prefixed with GEOGATE,
// e.g. GEOGATE_HTTP_PORT=8081.
func DefaultViper() *Viper {
	vip := viper.New()

	vip.SetEnvPrefix("geogate")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("organisation_name", "")
	vip.SetDefault("application_name", "geogate")
	vip.SetDefault("instance_name", "")

	vip.SetDefault("environment", "local")

	vip.SetDefault("http.port", 8080)
	vip.SetDefault("http.status_endpoint_enabled", true)
	vip.SetDefault("http.status_endpoint_port", 2223)
	vip.SetDefault("http.trust_forwarded_for", false)
	vip.SetDefault("http.expose_error_details", false)

	vip.SetDefault("geolocation.provider", IPInfoProvider)
	vip.SetDefault("geolocation.base_url", "https://ipinfo.io")
	vip.SetDefault("geolocation.db_path", "")

	vip.SetDefault("policy.restricted_countries", DefaultRestrictedCountries())
	vip.SetDefault("policy.deny_unknown_country", false)

	vip.SetDefault("notifier.enabled", false)
	vip.SetDefault("notifier.api_url", "https://api.telegram.org")
	vip.SetDefault("notifier.token", "")
	vip.SetDefault("notifier.chat_id", "")

	vip.SetDefault("otel.host", "localhost")
	vip.SetDefault("otel.port", 4317)
	vip.SetDefault("otel.hostname", "")

	return &Viper{Viper: vip}
}

var errConfigLoadFailed = errors.New("loading configuration failed")

// Viper is a wrapper around viper.Viper for configuration loading.
// The only purpose is to overwrite the Unmarshal method,
// so that secret.Secret data type is automatically marshalled and the
// developer does not have to think about it when using DefaultViper.
type Viper struct {
	*viper.Viper
}

func (vip *Viper) Unmarshal(rawVal any, _ ...viper.DecoderConfigOption) error {
	err := vip.Viper.Unmarshal(rawVal, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		allowedEnvironmentHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return fmt.Errorf("%w: could not decode configuration into struct: %v", errConfigLoadFailed, err)
	}

	// secret.Secret masks information e.g. in logs.
	// The data type has to be manually unmarshalled.
	var (
		isEmbeddedConfig bool
		embeddedFieldNum int
	)

	config, ok := rawVal.(*Config)
	if !ok {
		f := reflect.Indirect(reflect.ValueOf(rawVal))

		for i := range f.NumField() {
			if f.Field(i).Kind() != reflect.Struct {
				continue
			}

			conf, ok := f.Field(i).Interface().(Config)
			if !ok {
				continue
			}

			config = &conf
			isEmbeddedConfig = true
			embeddedFieldNum = i
		}
	}

	if config == nil {
		return fmt.Errorf("%w: could not cast to geogate.Config", errConfigLoadFailed)
	}

	err = vip.Viper.UnmarshalKey(
		"notifier.token",
		&config.Notifier.Token,
		viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()),
	)
	if err != nil {
		return fmt.Errorf("%w: could not decode secret: %v", errConfigLoadFailed, err)
	}

	if isEmbeddedConfig {
		f := reflect.Indirect(reflect.ValueOf(rawVal))
		f.Field(embeddedFieldNum).Set(reflect.ValueOf(*config))
	}

	return nil
}

func allowedEnvironmentHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (interface{}, error) {
		if t != reflect.TypeOf(Environment("")) {
			return data, nil
		}

		val, _ := data.(string)

		env := Environments()
		if slices.Contains(env, Environment(val)) {
			return data, nil
		}

		e := make([]string, 0, len(env))
		for _, env := range env {
			e = append(e, string(env))
		}

		return data, fmt.Errorf("value is not allowed, use one of: %s", strings.Join(e, ", ")) //nolint:err113,lll // accept dynamic error
	}
}
