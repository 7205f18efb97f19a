package commons

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"atelier/internal/config"
)

// fileConfig mirrors config.Config with durations as strings, which is what
// the yaml file carries.
type fileConfig struct {
	Server struct {
		Port int
	}
	Database struct {
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime string
	}
	Log struct {
		Level string
	}
	Order struct {
		TxTimeout        string
		MaxRetryAttempts int
	}
}

// LoadConfig reads the yaml config at path. When the file does not exist,
// configuration comes from the environment instead.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(fc.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("parsing database.connmaxlifetime: %w", err)
	}

	txTimeout, err := time.ParseDuration(fc.Order.TxTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing order.txtimeout: %w", err)
	}

	return &config.Config{
		Server: config.ServerConfig{
			Port: fc.Server.Port,
		},
		Database: config.DatabaseConfig{
			Host:            fc.Database.Host,
			Port:            fc.Database.Port,
			User:            fc.Database.User,
			Password:        fc.Database.Password,
			Name:            fc.Database.Name,
			MaxOpenConns:    fc.Database.MaxOpenConns,
			MaxIdleConns:    fc.Database.MaxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: config.LogConfig{
			Level: fc.Log.Level,
		},
		Order: config.OrderConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: fc.Order.MaxRetryAttempts,
		},
	}, nil
}
