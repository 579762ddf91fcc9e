package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the SMS dispatcher.
type Config struct {
	App        AppConfig
	Providers  ProviderConfig
	FailureLog FailureLogConfig
	Timeouts   TimeoutConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// TwilioConfig stores Twilio credentials and per-account defaults.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// PhoneNumber is the default sender applied to composed messages.
	PhoneNumber    string
	StatusCallback string
}

// TransportConfig selects the local file transport instead of Twilio.
type TransportConfig struct {
	UseFileTransport  bool
	FileTransportPath string
}

// ProviderConfig wraps configuration for the SMS provider.
type ProviderConfig struct {
	SMSProvider string
	Twilio      TwilioConfig
	Transport   TransportConfig
}

// FailureLogConfig points at the append-only log of failed sends.
type FailureLogConfig struct {
	Path   string
	Format string
}

// TimeoutConfig contains timeout thresholds for outbound providers.
type TimeoutConfig struct {
	ProviderTimeoutSeconds int
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Providers.SMSProvider = strings.ToLower(ldr.getString("SMS_PROVIDER", "twilio", false))
	cfg.Providers.Transport.UseFileTransport = ldr.getBool("SMS_USE_FILE_TRANSPORT", false, false)
	cfg.Providers.Transport.FileTransportPath = ldr.getString("SMS_FILE_TRANSPORT_PATH", "runtime/sms", false)

	// Credentials only matter when messages actually leave the process.
	needTwilio := !cfg.Providers.Transport.UseFileTransport && cfg.Providers.SMSProvider == "twilio"
	cfg.Providers.Twilio.AccountSID = ldr.getString("TWILIO_ACCOUNT_SID", "", needTwilio)
	cfg.Providers.Twilio.AuthToken = ldr.getString("TWILIO_AUTH_TOKEN", "", needTwilio)
	cfg.Providers.Twilio.PhoneNumber = ldr.getString("TWILIO_PHONE_NUMBER", "", false)
	cfg.Providers.Twilio.StatusCallback = ldr.getURL("TWILIO_STATUS_CALLBACK")

	cfg.FailureLog.Path = ldr.getString("SMS_FAILURE_LOG_PATH", "runtime/logs/sms-failures.log", false)
	cfg.FailureLog.Format = strings.ToLower(ldr.getString("SMS_FAILURE_LOG_FORMAT", "json", false))
	if cfg.FailureLog.Format != "json" && cfg.FailureLog.Format != "text" {
		ldr.addError("SMS_FAILURE_LOG_FORMAT must be json or text")
	}

	cfg.Timeouts.ProviderTimeoutSeconds = ldr.getInt("PROVIDER_TIMEOUT_SECONDS", 30, false)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getBool(key string, def bool, required bool) bool {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid boolean", key))
		return def
	}
	return parsed
}

// getURL reads an optional http(s) URL. An unset key yields "".
func (l *envLoader) getURL(key string) string {
	raw := l.getString(key, "", false)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		l.addError(fmt.Sprintf("%s must be a valid http(s) url", key))
		return ""
	}
	return raw
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
