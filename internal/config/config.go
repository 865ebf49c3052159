package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		// dev (consola con colores) | prod (JSON)
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// Backend del rate limiter: memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Issuer string `yaml:"issuer"`
		// Semilla Ed25519 en base64 (32 bytes). Vacía = clave efímera por proceso.
		SigningSeed string `yaml:"signing_seed"`
		AccessTTL   string `yaml:"access_ttl"`
		RefreshTTL  string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		// Cada cuánto se barren los refresh tokens vencidos.
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"rate"`

	Blob struct {
		// s3 | memory
		Kind string `yaml:"kind"`
		S3   struct {
			Region    string `yaml:"region"`
			Bucket    string `yaml:"bucket"`
			Endpoint  string `yaml:"endpoint"` // vacío = AWS; seteado = MinIO u otro compatible
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
			PublicURL string `yaml:"public_url"`
		} `yaml:"s3"`
	} `yaml:"blob"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// Load lee el YAML, aplica defaults y overrides de entorno, y valida.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromEnv arma la config sólo desde variables de entorno (modo -env).
func FromEnv() (*Config, error) {
	c := &Config{}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Log.Env == "" {
		c.Log.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Storage.Postgres.MaxIdleConns == 0 {
		c.Storage.Postgres.MaxIdleConns = 2
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "rescuetrack:"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "http://localhost:8080"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "720h" // 30d
	}
	if c.Auth.SweepInterval == "" {
		c.Auth.SweepInterval = "1h"
	}
	if c.Blob.Kind == "" {
		c.Blob.Kind = "memory"
	}
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}
	if v, ok := getEnvStr("LOG_ENV"); ok {
		c.Log.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SIGNING_SEED"); ok {
		c.JWT.SigningSeed = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}
	if v, ok := getEnvStr("AUTH_SWEEP_INTERVAL"); ok {
		c.Auth.SweepInterval = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("BLOB_KIND"); ok {
		c.Blob.Kind = v
	}
	if v, ok := getEnvStr("S3_REGION"); ok {
		c.Blob.S3.Region = v
	}
	if v, ok := getEnvStr("S3_BUCKET"); ok {
		c.Blob.S3.Bucket = v
	}
	if v, ok := getEnvStr("S3_ENDPOINT"); ok {
		c.Blob.S3.Endpoint = v
	}
	if v, ok := getEnvStr("S3_ACCESS_KEY"); ok {
		c.Blob.S3.AccessKey = v
	}
	if v, ok := getEnvStr("S3_SECRET_KEY"); ok {
		c.Blob.S3.SecretKey = v
	}
	if v, ok := getEnvStr("S3_PUBLIC_URL"); ok {
		c.Blob.S3.PublicURL = v
	}
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}

// Validate chequea combinaciones inválidas y formatos de duración.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: storage.driver inválido: %q", c.Storage.Driver)
	}
	if strings.EqualFold(c.Storage.Driver, "postgres") && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("config: storage.dsn requerido con driver postgres")
	}
	switch strings.ToLower(c.Cache.Kind) {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.kind inválido: %q", c.Cache.Kind)
	}
	switch strings.ToLower(c.Blob.Kind) {
	case "memory", "s3":
	default:
		return fmt.Errorf("config: blob.kind inválido: %q", c.Blob.Kind)
	}
	if strings.EqualFold(c.Blob.Kind, "s3") && strings.TrimSpace(c.Blob.S3.Bucket) == "" {
		return fmt.Errorf("config: blob.s3.bucket requerido con kind s3")
	}
	for name, s := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"jwt.access_ttl":          c.JWT.AccessTTL,
		"jwt.refresh_ttl":         c.JWT.RefreshTTL,
		"auth.sweep_interval":     c.Auth.SweepInterval,
	} {
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	// Prod nunca arranca sobre memoria: se pierde todo en cada deploy.
	if strings.EqualFold(c.App.Env, "prod") && strings.EqualFold(c.Storage.Driver, "memory") {
		return fmt.Errorf("config: storage.driver=memory no permitido en prod")
	}
	return nil
}

// AccessTTL ya validado; los getters devuelven la duración parseada.
func (c *Config) AccessTTL() time.Duration      { return mustDur(c.JWT.AccessTTL) }
func (c *Config) RefreshTTL() time.Duration     { return mustDur(c.JWT.RefreshTTL) }
func (c *Config) SweepInterval() time.Duration  { return mustDur(c.Auth.SweepInterval) }
func (c *Config) ShutdownTimeout() time.Duration { return mustDur(c.Server.ShutdownTimeout) }

func mustDur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
