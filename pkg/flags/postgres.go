package flags

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gorm.io/gorm/logger"

	"github.com/hristov111/companion/pkg/db"
)

// Gorm Log Level Custom Flag Type
type logLevel logger.LogLevel

const (
	LogLevelInfo   = "info"
	LogLevelWarn   = "warn"
	LogLevelError  = "error"
	LogLevelSilent = "silent"
)

func (l *logLevel) String() string {
	switch *l {
	case logLevel(logger.Info):
		return LogLevelInfo
	case logLevel(logger.Warn):
		return LogLevelWarn
	case logLevel(logger.Error):
		return LogLevelError
	case logLevel(logger.Silent):
		return LogLevelSilent
	}

	return LogLevelInfo
}

func (l *logLevel) Set(v string) error {
	switch v {
	case LogLevelInfo:
		*l = logLevel(logger.Info)
	case LogLevelWarn:
		*l = logLevel(logger.Warn)
	case LogLevelError:
		*l = logLevel(logger.Error)
	case LogLevelSilent:
		*l = logLevel(logger.Silent)
	default:
		return fmt.Errorf("unknown gorm log level: %s", v)
	}

	return nil
}

func (l *logLevel) Type() string {
	return "logLevel"
}

// PostgresFlags contains the set of flags needed to connect to a postgres database.
type PostgresFlags struct {
	LogLevel logLevel
	DSN      string
}

func NewPostgresDatabaseFlags() *PostgresFlags {
	return &PostgresFlags{
		DSN:      os.Getenv("COMPANION_DATABASE_DSN"),
		LogLevel: logLevel(logger.Warn),
	}
}

func (f *PostgresFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.DSN, "database-dsn", f.DSN, "Database DSN for the conversation store (defaults to the COMPANION_DATABASE_DSN environment variable)")
	fs.Var(&f.LogLevel, "db-log-level", "gorm log level (info,warn,error,silent)")
}

func (f *PostgresFlags) GetDBClient() (*db.DB, error) {
	return db.New(f.DSN, logger.LogLevel(f.LogLevel))
}
