package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Log      Log
	Database Database
	Gemini   Gemini
	Pipeline Pipeline
	Upload   Upload
	Archive  Archive
}

type Server struct {
	Port               string
	Mode               string
	CORSAllowedOrigins []string
}

type Log struct {
	Level  string
	Pretty bool
}

// Database selects the GORM driver. Driver is "postgres" or "sqlite"; Path is
// only used by sqlite.
type Database struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Gemini holds the generation service settings. APIKeys is the ordered
// rotation list; it is never mutated after load.
type Gemini struct {
	APIKeys         []string
	Model           string
	BaseURL         string
	Transport       string
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
	MaxRetries      int
	Timeout         time.Duration
}

type Pipeline struct {
	QuestionDelay time.Duration
}

// Upload limits. RateLimit is the number of uploads a client IP may start
// per minute; zero disables the limit.
type Upload struct {
	MaxBytes  int64
	RateLimit int
}

// Archive configures the optional MinIO bucket for raw uploads. An empty
// Endpoint disables archiving.
type Archive struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PATH", "reansql.db")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GEMINI_TRANSPORT", "rest")
	v.SetDefault("GEMINI_TEMPERATURE", 0.7)
	v.SetDefault("GEMINI_TOP_P", 0.95)
	v.SetDefault("GEMINI_TOP_K", 40)
	v.SetDefault("GEMINI_MAX_OUTPUT_TOKENS", 2048)
	v.SetDefault("GEMINI_MAX_RETRIES", 3)
	v.SetDefault("GEMINI_TIMEOUT", "60s")
	v.SetDefault("PIPELINE_QUESTION_DELAY", "1s")
	v.SetDefault("UPLOAD_MAX_BYTES", 20<<20)
	v.SetDefault("UPLOAD_RATE_LIMIT", 10)
	v.SetDefault("MINIO_BUCKET", "reansql-uploads")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	cfg := fromViper(v)

	log.Info().
		Str("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Str("gemini_model", cfg.Gemini.Model).
		Str("gemini_transport", cfg.Gemini.Transport).
		Int("gemini_keys", len(cfg.Gemini.APIKeys)).
		Dur("question_delay", cfg.Pipeline.QuestionDelay).
		Bool("archive_enabled", cfg.Archive.Endpoint != "").
		Msg("Config loaded")
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Mode = v.GetString("GIN_MODE")
	config.Server.CORSAllowedOrigins = SplitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Pretty = v.GetBool("LOG_PRETTY")

	config.Database.Driver = strings.ToLower(v.GetString("DATABASE_DRIVER"))
	config.Database.Path = v.GetString("DATABASE_PATH")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")

	config.Gemini.APIKeys = SplitList(v.GetString("GEMINI_API_KEYS"))
	if len(config.Gemini.APIKeys) == 0 {
		config.Gemini.APIKeys = SplitList(v.GetString("GEMINI_API_KEY"))
	}
	config.Gemini.Model = v.GetString("GEMINI_MODEL")
	config.Gemini.BaseURL = v.GetString("GEMINI_BASE_URL")
	config.Gemini.Transport = strings.ToLower(v.GetString("GEMINI_TRANSPORT"))
	config.Gemini.Temperature = float32(v.GetFloat64("GEMINI_TEMPERATURE"))
	config.Gemini.TopP = float32(v.GetFloat64("GEMINI_TOP_P"))
	config.Gemini.TopK = v.GetInt("GEMINI_TOP_K")
	config.Gemini.MaxOutputTokens = v.GetInt("GEMINI_MAX_OUTPUT_TOKENS")
	config.Gemini.MaxRetries = v.GetInt("GEMINI_MAX_RETRIES")
	config.Gemini.Timeout = v.GetDuration("GEMINI_TIMEOUT")

	config.Pipeline.QuestionDelay = v.GetDuration("PIPELINE_QUESTION_DELAY")
	config.Upload.MaxBytes = v.GetInt64("UPLOAD_MAX_BYTES")
	config.Upload.RateLimit = v.GetInt("UPLOAD_RATE_LIMIT")

	config.Archive.Endpoint = v.GetString("MINIO_ENDPOINT")
	config.Archive.AccessKey = v.GetString("MINIO_ACCESS_KEY")
	config.Archive.SecretKey = v.GetString("MINIO_SECRET_KEY")
	config.Archive.Bucket = v.GetString("MINIO_BUCKET")
	config.Archive.UseSSL = v.GetBool("MINIO_USE_SSL")

	return &config
}

// SplitList splits a comma separated value, trimming blanks and dropping
// empty entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
