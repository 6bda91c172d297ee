package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "podhive"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultJWTTTL     = 24 * time.Hour
	DefaultBcryptCost = 10

	DefaultOTPTTL                   = 15 * time.Minute
	DefaultPasswordResetTTL         = 15 * time.Minute
	DefaultMaxPasswordResetAttempts = 5

	DefaultSMTPPort = 587

	DefaultKafkaTopic = "podhive.events"

	// The reaper fires once a day at this local hour, matching the
	// 21:00 cleanup window the availability data was designed around.
	DefaultReaperHour  = 21
	DefaultSlotLockTTL = 10 * time.Second

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 << 20 // 1 MiB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
