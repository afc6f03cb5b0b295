package portal

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// AppConfig is the process configuration, loaded from the environment
// at startup. It satisfies the Config interface consumed by the
// authenticator and the JWT middleware.
type AppConfig struct {
	ListenAddr    string   `env:"PORTAL_LISTEN_ADDR" envDefault:":4000"`
	DSN           string   `env:"PORTAL_DSN" envDefault:"file:portal.db?cache=shared&_pragma=foreign_keys(1)"`
	SigningKey    string   `env:"PORTAL_SIGNING_KEY,required"`
	SigningMethod string   `env:"PORTAL_SIGNING_METHOD" envDefault:"HS256"`
	TokenTTLHours int      `env:"PORTAL_TOKEN_TTL_HOURS" envDefault:"12"`
	TokenIssuer   string   `env:"PORTAL_TOKEN_ISSUER" envDefault:"placement-portal"`
	TokenAudience []string `env:"PORTAL_TOKEN_AUDIENCE" envSeparator:","`
	ContextKey    string   `env:"PORTAL_CONTEXT_KEY" envDefault:"user"`
	TokenLookup   string   `env:"PORTAL_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme    string   `env:"PORTAL_AUTH_SCHEME" envDefault:"Bearer"`
	BcryptCost    int      `env:"PORTAL_BCRYPT_COST" envDefault:"14"`

	// VerificationKeys holds previous signing keys that remain valid
	// for verification while tokens minted with them age out.
	VerificationKeys []string `env:"PORTAL_VERIFICATION_KEYS" envSeparator:","`
}

// Verify interface compliance
var _ Config = (*AppConfig)(nil)

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to load configuration")
	}
	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string    { return c.SigningKey }
func (c *AppConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *AppConfig) GetContextKey() string    { return c.ContextKey }
func (c *AppConfig) GetTokenExpiration() int  { return c.TokenTTLHours }
func (c *AppConfig) GetTokenLookup() string   { return c.TokenLookup }
func (c *AppConfig) GetAuthScheme() string    { return c.AuthScheme }
func (c *AppConfig) GetIssuer() string        { return c.TokenIssuer }
func (c *AppConfig) GetAudience() []string    { return c.TokenAudience }
func (c *AppConfig) GetBcryptCost() int       { return c.BcryptCost }

// AllVerificationKeys returns the active signing key plus any rollover
// keys, active key first.
func (c *AppConfig) AllVerificationKeys() [][]byte {
	keys := make([][]byte, 0, len(c.VerificationKeys)+1)
	keys = append(keys, []byte(c.SigningKey))
	for _, k := range c.VerificationKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	return keys
}
