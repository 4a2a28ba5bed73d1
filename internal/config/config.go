package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// Values come from the environment, optionally seeded from a .env file.
// No business logic should depend on raw environment variables.
type Config struct {
	App       AppConfig
	Business  BusinessConfig
	Links     LinksConfig
	Assistant AssistantConfig
	SMS       SMSConfig
	Twilio    TwilioConfig
	Gateway   GatewayConfig
	AWS       AWSConfig
	Email     EmailConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
}

type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"local"`
	Port int    `env:"APP_PORT" envDefault:"10000"`

	// PublicBaseURL is how the voice platform reaches this service. The
	// assistant document points its tool server back at it.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

type BusinessConfig struct {
	Name string `env:"BUSINESS_NAME" envDefault:"Photo Illusions"`
}

type LinksConfig struct {
	// File optionally replaces the built-in link table (YAML or JSON).
	File        string `env:"LINKS_FILE"`
	DefaultType string `env:"DEFAULT_LINK_TYPE" envDefault:"website"`
}

type AssistantConfig struct {
	FirstMessage        string `env:"ASSISTANT_FIRST_MESSAGE" envDefault:"Thanks for calling Photo Illusions! How can I help you today?"`
	SystemPrompt        string `env:"ASSISTANT_SYSTEM_PROMPT"`
	ModelProvider       string `env:"ASSISTANT_MODEL_PROVIDER" envDefault:"openai"`
	Model               string `env:"ASSISTANT_MODEL" envDefault:"gpt-4o"`
	TranscriberProvider string `env:"ASSISTANT_TRANSCRIBER_PROVIDER" envDefault:"deepgram"`
	TranscriberModel    string `env:"ASSISTANT_TRANSCRIBER_MODEL" envDefault:"nova-2"`
	TranscriberLanguage string `env:"ASSISTANT_TRANSCRIBER_LANGUAGE" envDefault:"en"`
	VoiceProvider       string `env:"ASSISTANT_VOICE_PROVIDER" envDefault:"11labs"`
	VoiceID             string `env:"ASSISTANT_VOICE_ID" envDefault:"burt"`
	ToolName            string `env:"ASSISTANT_TOOL_NAME" envDefault:"send_text"`
}

// SMS providers.
const (
	SMSProviderTwilio  = "twilio"
	SMSProviderGateway = "gateway"
	SMSProviderSNS     = "sns"
)

type SMSConfig struct {
	Provider string `env:"SMS_PROVIDER" envDefault:"twilio"`
}

// TwilioConfig keeps the variable names the service has always been deployed with.
type TwilioConfig struct {
	AccountSID string `env:"TWILIO_SID"`
	AuthToken  string `env:"TWILIO_TOKEN"`
	FromNumber string `env:"TWILIO_FROM_NUMBER"`
}

// GatewayConfig is a REST SMS gateway keyed by an API key.
type GatewayConfig struct {
	URL    string `env:"SMS_GATEWAY_URL" envDefault:"https://textbelt.com/text"`
	APIKey string `env:"SMS_GATEWAY_API_KEY"`
}

type AWSConfig struct {
	Region string `env:"AWS_REGION" envDefault:"us-east-1"`
}

// Email providers.
const (
	EmailProviderSMTP = "smtp"
	EmailProviderSES  = "ses"
	EmailProviderNone = "none"
)

type EmailConfig struct {
	Provider string   `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	From     string   `env:"EMAIL_FROM"`
	To       []string `env:"EMAIL_TO" envSeparator:","`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	UseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"true"`
}

// RedisConfig enables the duplicate-send guard when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	GuardTTL time.Duration `env:"SEND_GUARD_TTL" envDefault:"24h"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration and fills derived defaults.
// Provider credentials are not required here: a missing credential
// turns a send into a reported failure, not a startup crash.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	c.App.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.App.PublicBaseURL), "/")
	if c.App.PublicBaseURL == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("PUBLIC_BASE_URL is required in production"))
		} else if c.App.Port > 0 {
			c.App.PublicBaseURL = fmt.Sprintf("http://localhost:%d", c.App.Port)
		}
	} else if u, err := url.Parse(c.App.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL must be an absolute URL, got %q", c.App.PublicBaseURL))
	}

	if strings.TrimSpace(c.Business.Name) == "" {
		errs = append(errs, errors.New("BUSINESS_NAME is required"))
	}
	if strings.TrimSpace(c.Links.DefaultType) == "" {
		c.Links.DefaultType = "website"
	}
	if strings.TrimSpace(c.Assistant.ToolName) == "" {
		errs = append(errs, errors.New("ASSISTANT_TOOL_NAME is required"))
	}

	c.SMS.Provider = strings.ToLower(strings.TrimSpace(c.SMS.Provider))
	switch c.SMS.Provider {
	case SMSProviderTwilio, SMSProviderGateway, SMSProviderSNS:
	default:
		errs = append(errs, fmt.Errorf("SMS_PROVIDER must be one of twilio, gateway, sns, got %q", c.SMS.Provider))
	}

	c.Email.Provider = strings.ToLower(strings.TrimSpace(c.Email.Provider))
	switch c.Email.Provider {
	case EmailProviderSMTP:
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.SMTP.Port))
		}
	case EmailProviderSES, EmailProviderNone:
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER must be one of smtp, ses, none, got %q", c.Email.Provider))
	}
	if c.Email.From == "" {
		// Gmail-style submission sends as the authenticated account.
		c.Email.From = c.SMTP.Username
	}
	if len(c.Email.To) == 0 && c.Email.From != "" {
		c.Email.To = []string{c.Email.From}
	}

	if c.Redis.GuardTTL <= 0 {
		c.Redis.GuardTTL = 24 * time.Hour
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// SendLinkURL is the absolute URL of the send-sms endpoint.
func (c Config) SendLinkURL() string {
	return c.App.PublicBaseURL + "/send-sms"
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
