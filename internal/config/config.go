// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server settings,
// database and upload paths, auth secrets, the voice-pipeline toolchain, and
// the API keys for the external search integrations.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-career-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AuthConfig groups JWT signing settings.
type AuthConfig struct {
	JWTSecret string        // TOKEN_KEY
	JWTTTL    time.Duration // token lifetime, default 24h
}

// VoiceConfig groups the voice-reply pipeline settings: the LLM and TTS
// integrations plus the external tools used for lip-sync extraction.
type VoiceConfig struct {
	GroqAPIKey        string // GROQ_API_KEY
	GroqModel         string // default llama3-70b-8192
	ElevenLabsAPIKey  string // ELEVEN_LABS_API_KEY
	ElevenLabsVoiceID string // default 9BWtsMINqrJLrRacOk9x
	FFmpegBin         string // path to ffmpeg
	RhubarbBin        string // path to rhubarb
	AudioDir          string // scratch dir for synthesized audio
	IntroAudioPath    string // pre-recorded intro wav
	IntroLipsyncPath  string // pre-computed intro mouth cues
}

// SearchConfig groups the API keys for the third-party search proxies.
type SearchConfig struct {
	TheirStackAPIKey string // THEIRSTACK_API_KEY (job search)
	RapidAPIKey      string // RAPIDAPI_KEY (mentor search)
	SerpAPIKey       string // SERPAPI_API_KEY (event search)
}

// UploadConfig controls storage of files attached to chat messages.
type UploadConfig struct {
	Dir string        // UPLOAD_DIR
	TTL time.Duration // how long uploaded files are retained
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s (LLM + TTS calls are slow)
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// App
	DBPath     string        // SQLite path
	SessionTTL time.Duration // hard TTL for conversations (60m)

	Auth   AuthConfig
	Voice  VoiceConfig
	Search SearchConfig
	Upload UploadConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8085"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// App
		DBPath:     getenv("DB_PATH", "career.db"),
		SessionTTL: getdur("SESSION_TTL", 60*time.Minute),

		Auth: AuthConfig{
			JWTSecret: getenv("TOKEN_KEY", ""),
			JWTTTL:    getdur("JWT_TTL", 24*time.Hour),
		},

		Voice: VoiceConfig{
			GroqAPIKey:        getenv("GROQ_API_KEY", ""),
			GroqModel:         getenv("GROQ_MODEL", "llama3-70b-8192"),
			ElevenLabsAPIKey:  getenv("ELEVEN_LABS_API_KEY", ""),
			ElevenLabsVoiceID: getenv("ELEVEN_LABS_VOICE_ID", "9BWtsMINqrJLrRacOk9x"),
			FFmpegBin:         getenv("FFMPEG_BIN", "ffmpeg"),
			RhubarbBin:        getenv("RHUBARB_BIN", "bin/rhubarb/rhubarb-linux"),
			AudioDir:          getenv("AUDIO_DIR", "audios"),
			IntroAudioPath:    getenv("INTRO_AUDIO", "audios/intro_0.wav"),
			IntroLipsyncPath:  getenv("INTRO_LIPSYNC", "audios/intro_0.json"),
		},

		Search: SearchConfig{
			TheirStackAPIKey: getenv("THEIRSTACK_API_KEY", ""),
			RapidAPIKey:      getenv("RAPIDAPI_KEY", ""),
			SerpAPIKey:       getenv("SERPAPI_API_KEY", ""),
		},

		Upload: UploadConfig{
			Dir: getenv("UPLOAD_DIR", "uploads"),
			TTL: getdur("UPLOAD_TTL", 24*time.Hour),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-career-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return cfg, errors.New("TOKEN_KEY must not be empty")
	}
	if cfg.Auth.JWTTTL <= 0 {
		return cfg, errors.New("JWT_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Upload.Dir) == "" {
		return cfg, errors.New("UPLOAD_DIR must not be empty")
	}
	if cfg.Upload.TTL <= 0 {
		return cfg, errors.New("UPLOAD_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Voice.AudioDir) == "" {
		return cfg, errors.New("AUDIO_DIR must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
