package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"academy/src/lib"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

const (
	SETTING_PAYMENT_EXPIRY_HOURS = "payment_expiry_hours"
	SETTING_MIN_PAYMENT_AMOUNT   = "min_payment_amount"
	SETTING_MAX_PAYMENT_AMOUNT   = "max_payment_amount"

	DEFAULT_PAYMENT_EXPIRY_HOURS = 72
)

const settingCacheTTL = 5 * time.Minute

// settingSource is the database lookup behind GetSetting. It is registered
// at boot to keep this package free of a db dependency.
var settingSource func(key string) (string, bool)

func RegisterSettingSource(fn func(key string) (string, bool)) {
	settingSource = fn
}

// GetSetting resolves a configuration value with precedence
// env var > settings table > fallback. Database hits are cached in Redis.
func GetSetting(key string, fallback string) string {
	envKey := strings.ToUpper(key)
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	cacheKey := fmt.Sprintf("setting:%s", key)
	rd := lib.GetRedisClient()
	if rd != nil {
		if v, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
			return v
		}
	}
	if settingSource != nil {
		if v, ok := settingSource(key); ok {
			if rd != nil {
				if err := rd.Set(context.Background(), cacheKey, v, settingCacheTTL).Err(); err != nil {
					log.Printf("Failed to cache setting %s: %s\n", key, err.Error())
				}
			}
			return v
		}
	}
	return fallback
}

func GetSettingInt(key string, fallback int) int {
	v := GetSetting(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// InvalidateSetting drops the cached value so the next read sees fresh data.
// Admin setting writes must call this.
func InvalidateSetting(key string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	cacheKey := fmt.Sprintf("setting:%s", key)
	if err := rd.Del(context.Background(), cacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate setting %s: %s\n", key, err.Error())
	}
}
