package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

// SecretEnv overrides Auth.TokenSecret when set.
const SecretEnv = "CIRCLE_TOKEN_SECRET"

type Config struct {
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	Redis     Redis     `yaml:"redis"`
	Memcached Memcached `yaml:"memcached"`
	Auth      Auth      `yaml:"auth"`
	Social    Social    `yaml:"social"`
	Storage   Storage   `yaml:"storage"`
	Trace     Trace     `yaml:"trace"`
}

type Server struct {
	Environment  string   `yaml:"environment"` // development, production
	Listen       string   `yaml:"listen"`
	AllowOrigins []string `yaml:"allowOrigins"`
	LogLevel     string   `yaml:"logLevel"`
}

func (s Server) Production() bool {
	return s.Environment == "production"
}

type Database struct {
	Driver string `yaml:"driver"` // postgres, sqlite
	DSN    string `yaml:"dsn"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Memcached struct {
	Addr string `yaml:"addr"`
}

type Auth struct {
	TokenSecret      string        `yaml:"tokenSecret"`
	TokenTTL         time.Duration `yaml:"tokenTTL"`
	LoginMaxFailures int           `yaml:"loginMaxFailures"`
	LoginWindow      time.Duration `yaml:"loginWindow"`
}

type Social struct {
	AllowSelfFollow *bool `yaml:"allowSelfFollow"`
	SuggestedUsers  int   `yaml:"suggestedUsers"`
	SearchLimit     int   `yaml:"searchLimit"`
}

// SelfFollow reports whether users may follow themselves. Unset means yes.
func (s Social) SelfFollow() bool {
	return s.AllowSelfFollow == nil || *s.AllowSelfFollow
}

type Storage struct {
	Driver         string `yaml:"driver"` // local, s3
	LocalDir       string `yaml:"localDir"`
	PublicPrefix   string `yaml:"publicPrefix"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
	S3             S3     `yaml:"s3"`
}

type S3 struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"accessKey"`
	SecretKey     string `yaml:"secretKey"`
	PublicBaseURL string `yaml:"publicBaseURL"`
}

type Trace struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if secret := os.Getenv(SecretEnv); secret != "" {
		config.Auth.TokenSecret = secret
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) SetDefaults() {
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.LoginMaxFailures == 0 {
		c.Auth.LoginMaxFailures = 5
	}
	if c.Auth.LoginWindow == 0 {
		c.Auth.LoginWindow = 15 * time.Minute
	}
	if c.Social.SuggestedUsers == 0 {
		c.Social.SuggestedUsers = 3
	}
	if c.Social.SearchLimit == 0 {
		c.Social.SearchLimit = 20
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./uploads"
	}
	if c.Storage.PublicPrefix == "" {
		c.Storage.PublicPrefix = "/uploads"
	}
	if c.Storage.MaxUploadBytes == 0 {
		c.Storage.MaxUploadBytes = 5 << 20
	}
	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = "localhost:4318"
	}
}

func (c Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return errors.Errorf("auth.tokenSecret is required (or set %s)", SecretEnv)
	}
	if c.Auth.TokenTTL < 0 || c.Auth.LoginWindow < 0 || c.Auth.LoginMaxFailures < 0 {
		return errors.New("auth durations and limits must not be negative")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Social.SearchLimit < 0 || c.Social.SuggestedUsers < 0 {
		return errors.New("social limits must not be negative")
	}
	return nil
}
