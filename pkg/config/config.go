package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Podhive/MVP/pkg/client"
	"github.com/Podhive/MVP/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	JWTSecret string
	JWTTTL    time.Duration

	BcryptCost int

	OTPTTL                   time.Duration
	PasswordResetTTL         time.Duration
	MaxPasswordResetAttempts int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	ReaperHour  int
	SlotLockTTL time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTTTL:    getEnvDuration(EnvJWTTTL, DefaultJWTTTL),

		BcryptCost: getEnvNum(EnvBcryptCost, DefaultBcryptCost),

		OTPTTL:                   getEnvDuration(EnvOTPTTL, DefaultOTPTTL),
		PasswordResetTTL:         getEnvDuration(EnvPasswordResetTTL, DefaultPasswordResetTTL),
		MaxPasswordResetAttempts: getEnvNum(EnvMaxPasswordResetAttempts, DefaultMaxPasswordResetAttempts),

		SMTPHost:     getEnvStr(EnvSMTPHost, ""),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, ""),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		ReaperHour:  getEnvNum(EnvReaperHour, DefaultReaperHour),
		SlotLockTTL: getEnvDuration(EnvSlotLockTTL, DefaultSlotLockTTL),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWTSecret cannot be empty")
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, fmt.Sprintf("JWTTTL must be positive, got: %s", cfg.JWTTTL))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("BcryptCost must be between 4 and 31, got: %d", cfg.BcryptCost))
	}

	if cfg.OTPTTL <= 0 {
		errs = append(errs, fmt.Sprintf("OTPTTL must be positive, got: %s", cfg.OTPTTL))
	}
	if cfg.PasswordResetTTL <= 0 {
		errs = append(errs, fmt.Sprintf("PasswordResetTTL must be positive, got: %s", cfg.PasswordResetTTL))
	}
	if cfg.MaxPasswordResetAttempts <= 0 {
		errs = append(errs, fmt.Sprintf("MaxPasswordResetAttempts must be positive, got: %d", cfg.MaxPasswordResetAttempts))
	}

	if cfg.ReaperHour < 0 || cfg.ReaperHour > 23 {
		errs = append(errs, fmt.Sprintf("ReaperHour must be between 0 and 23, got: %d", cfg.ReaperHour))
	}
	if cfg.SlotLockTTL <= 0 {
		errs = append(errs, fmt.Sprintf("SlotLockTTL must be positive, got: %s", cfg.SlotLockTTL))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_ttl", cfg.JWTTTL,
		"bcrypt_cost", cfg.BcryptCost,
		"otp_ttl", cfg.OTPTTL,
		"password_reset_ttl", cfg.PasswordResetTTL,
		"max_password_reset_attempts", cfg.MaxPasswordResetAttempts,
		"smtp_configured", cfg.SMTPHost != "",
		"kafka_configured", len(cfg.KafkaBrokers) > 0,
		"kafka_topic", cfg.KafkaTopic,
		"reaper_hour", cfg.ReaperHour,
		"slot_lock_ttl", cfg.SlotLockTTL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > DefaultPaginationLimit {
		return DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
