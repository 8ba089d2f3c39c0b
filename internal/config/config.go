// internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config は設定ファイル(config.yaml)と環境変数から読み込む全設定
type Config struct {
	Server struct {
		Port            string `mapstructure:"port"`
		ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // 秒
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`  // debug / info / warn / error
		Format string `mapstructure:"format"` // text / json
	} `mapstructure:"log"`

	Auth struct {
		JWTSecretKey     string `mapstructure:"jwt_secret_key"`
		TokenExpiryHours int    `mapstructure:"token_expiry_hours"`
		ResetTokenExpiry int    `mapstructure:"reset_token_expiry_minutes"`
	} `mapstructure:"auth"`

	Store struct {
		// driver: "memory" または "firestore"
		Driver          string `mapstructure:"driver"`
		ProjectID       string `mapstructure:"project_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"store"`

	Mail struct {
		// driver: "log" または "ses"
		Driver      string `mapstructure:"driver"`
		Region      string `mapstructure:"region"`
		Sender      string `mapstructure:"sender"`
		ResetURLBase string `mapstructure:"reset_url_base"`
	} `mapstructure:"mail"`

	Assets struct {
		// driver: "none" または "s3"
		Driver  string `mapstructure:"driver"`
		Region  string `mapstructure:"region"`
		Bucket  string `mapstructure:"bucket"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"assets"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

// Cfg はロード済み設定のグローバル参照
var Cfg Config

// LoadConfig は指定パスの設定ファイルを読み込み、環境変数で上書きする。
// 例: APP_AUTH_JWT_SECRET_KEY が auth.jwt_secret_key を上書きする。
func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", 10)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("auth.token_expiry_hours", 24)
	viper.SetDefault("auth.reset_token_expiry_minutes", 60)
	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("mail.driver", "log")
	viper.SetDefault("assets.driver", "none")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config.LoadConfig: failed to read config file: %w", err)
	}
	if err := viper.Unmarshal(&Cfg); err != nil {
		return fmt.Errorf("config.LoadConfig: failed to unmarshal config: %w", err)
	}
	if Cfg.Auth.JWTSecretKey == "" {
		return fmt.Errorf("config.LoadConfig: auth.jwt_secret_key is required")
	}
	return nil
}
