package app

import (
	"strings"
	"time"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/utils"
)

type Config struct {
	Environment     string
	HTTPAddr        string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowOrigins    []string
	RedisAddr       string
	RedisPassword   string
	CacheTTLSeconds int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
	return Config{
		Environment:     utils.GetEnv("APP_ENV", "development", log),
		HTTPAddr:        utils.GetEnv("HTTP_ADDR", ":8080", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowOrigins:    splitOrigins(origins),
		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:   utils.GetEnv("REDIS_PASSWORD", "", log),
		CacheTTLSeconds: utils.GetEnvAsInt("CACHE_TTL_SECONDS", 300, log),
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
