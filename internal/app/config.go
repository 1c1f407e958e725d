package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qnadesk/gephi-export/internal/platform/envutil"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
	"github.com/qnadesk/gephi-export/internal/platform/pgdb"
)

// Config is everything the exporter resolves at startup. Database settings
// layer in precedence order: built-in defaults, then the optional YAML file,
// then the libpq-standard environment variables.
type Config struct {
	Database pgdb.Config `yaml:"database"`
}

// LoadConfig resolves the exporter configuration. path may be empty (no
// file); a path that cannot be read or parsed is an error rather than a
// silent fallback.
//
// YAML shape:
//
//	database:
//	  ENDPOINT: db.example.com
//	  PORT: "5432"
//	  DBNAME: qna
//	  USER: exporter
//	  PASSWORD: secret
//	  SSLMODE: require
func LoadConfig(path string, log *logger.Logger) (Config, error) {
	cfg := Config{
		Database: pgdb.Config{
			Endpoint: "localhost",
			Port:     "5432",
			DBName:   "postgres",
			User:     "postgres",
			SSLMode:  "disable",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("config file loaded", "path", path)
	}

	cfg.Database.Endpoint = envutil.String("PGHOST", cfg.Database.Endpoint)
	cfg.Database.Port = envutil.String("PGPORT", cfg.Database.Port)
	cfg.Database.DBName = envutil.String("PGDATABASE", cfg.Database.DBName)
	cfg.Database.User = envutil.String("PGUSER", cfg.Database.User)
	cfg.Database.Password = envutil.String("PGPASSWORD", cfg.Database.Password)
	cfg.Database.SSLMode = envutil.String("PGSSLMODE", cfg.Database.SSLMode)

	return cfg, nil
}
