package fluuyo

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads fluuyo.yaml from dir (or the working directory when dir
// is "") with FLUUYO_* environment overrides. A missing file is not an
// error; defaults apply.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("fluuyo")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("FLUUYO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := defaultConfig()
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.request_timeout", cfg.API.RequestTimeout)
	v.SetDefault("api.download_timeout", cfg.API.DownloadTimeout)
	v.SetDefault("session.suppression_grace", cfg.Session.SuppressionGrace)
	v.SetDefault("session.refresh_schedule", "")
	v.SetDefault("token.redis_addr", "")
	v.SetDefault("token.redis_password", "")
	v.SetDefault("token.redis_db", 0)
	v.SetDefault("token.key", "")
	v.SetDefault("log.environment", "development")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg.API.BaseURL = v.GetString("api.base_url")
	cfg.API.RequestTimeout = v.GetDuration("api.request_timeout")
	cfg.API.DownloadTimeout = v.GetDuration("api.download_timeout")
	cfg.Session.SuppressionGrace = v.GetDuration("session.suppression_grace")
	cfg.Session.RefreshSchedule = v.GetString("session.refresh_schedule")
	cfg.Token.RedisAddr = v.GetString("token.redis_addr")
	cfg.Token.RedisPassword = v.GetString("token.redis_password")
	cfg.Token.RedisDB = v.GetInt("token.redis_db")
	cfg.Token.Key = v.GetString("token.key")
	cfg.Log.Environment = v.GetString("log.environment")

	cfg = cfg.withDefaults()
	return cfg, cfg.Validate()
}
