package config

import (
	"strconv"
	"time"
)

const (
	apiURLVar     = "API_URL"
	apiTimeoutVar = "API_TIMEOUT"

	defaultAPIURL     = "http://localhost:8080"
	defaultAPITimeout = 30000 * time.Millisecond
)

type APIConfig interface {
	GetAPIURL() string
	GetAPITimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIURL() string {
	return GetEnv(apiURLVar, defaultAPIURL)
}

// GetAPITimeout reads API_TIMEOUT in milliseconds, defaulting to 30000ms
func (API) GetAPITimeout() time.Duration {
	ms, err := strconv.Atoi(GetEnv(apiTimeoutVar, ""))
	if err != nil || ms <= 0 {
		return defaultAPITimeout
	}
	return time.Duration(ms) * time.Millisecond
}
