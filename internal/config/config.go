package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CDN      CDNConfig      `mapstructure:"cdn"`
	Local    LocalConfig    `mapstructure:"local"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// CDNConfig configures the S3-compatible remote object storage that
// fronts the public CDN.
type CDNConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	PublicBaseURL   string        `mapstructure:"public_base_url"` // Pull-zone base, e.g. https://cdn.example.com
	UploadTimeout   time.Duration `mapstructure:"upload_timeout"`  // Bound on the remote attempt before failing over
	UseSSL          bool          `mapstructure:"use_ssl"`
}

// LocalConfig configures the on-disk fallback storage and the static
// route it is served from.
type LocalConfig struct {
	UploadsDir    string `mapstructure:"uploads_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"` // Base URL of this server, e.g. http://localhost:8080
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: cdn.bucket_name -> CDN_BUCKET_NAME etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "course_platform")
	viper.SetDefault("cdn.use_ssl", true)
	viper.SetDefault("cdn.upload_timeout", "30s")
	viper.SetDefault("local.uploads_dir", "uploads")
	viper.SetDefault("local.public_base_url", "http://localhost:8080")

	err = viper.ReadInConfig()
	// Config file is optional; env vars and defaults may be enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
