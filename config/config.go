package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Reconciliation struct {
		IntervalMinutes int
		NotifyEmail     string // адрес для уведомлений о расхождениях; пусто — не отправлять
	}
}

// NewConfig создает новый экземпляр конфигурации.
// Значения читаются из config.yaml (если есть) и переменных окружения,
// например SERVER_PORT, DB_HOST, SMTP_PORT.
func NewConfig() (*Config, error) {
	v := viper.New()

	// Значения по умолчанию
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.dbname", "pettycash_db")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "your-email@gmail.com")
	v.SetDefault("smtp.password", "your-app-password")
	v.SetDefault("smtp.from", "your-email@gmail.com")
	v.SetDefault("reconciliation.intervalminutes", 60)
	v.SetDefault("reconciliation.notifyemail", "")

	// Переменные окружения перекрывают файл и значения по умолчанию
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Файл конфигурации опционален
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %v", err)
		}
	}

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("server.port")
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.DBName = v.GetString("db.dbname")
	cfg.SMTP.Host = v.GetString("smtp.host")
	cfg.SMTP.Port = v.GetInt("smtp.port")
	cfg.SMTP.Username = v.GetString("smtp.username")
	cfg.SMTP.Password = v.GetString("smtp.password")
	cfg.SMTP.From = v.GetString("smtp.from")
	cfg.Reconciliation.IntervalMinutes = v.GetInt("reconciliation.intervalminutes")
	cfg.Reconciliation.NotifyEmail = v.GetString("reconciliation.notifyemail")

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("неверный порт сервера: %d", cfg.Server.Port)
	}
	if cfg.Reconciliation.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("неверный интервал сверки балансов: %d", cfg.Reconciliation.IntervalMinutes)
	}

	return cfg, nil
}
