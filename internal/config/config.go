package config

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	AuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
	Auth
}

func New() Config {
	return mainConfig{}
}
