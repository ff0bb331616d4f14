package connectors

import (
	"context"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver, registered as "sqlite"

	"storepilot/pkg/logx"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SQL lazily opens one pooled connection to either Postgres or SQLite.
type SQL struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (s *SQL) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		driver := lo.Ternary(s.Driver == "", DriverPostgres, s.Driver)

		s.value = lo.Must(sqlx.ConnectContext(ctx, driver, s.DSN))

		if driver == DriverSQLite {
			// sqlite serialises writers; one connection avoids SQLITE_BUSY.
			s.value.SetMaxOpenConns(1)
		} else {
			s.value.SetMaxOpenConns(s.MaxOpenConns)
			s.value.SetMaxIdleConns(s.MaxIdleConns)
			s.value.SetConnMaxLifetime(s.ConnMaxLifetime)
		}

		logger(ctx).Info("database connected", slog.String("driver", driver))
	})

	return s.value
}

// Ping is used as a readiness check.
func (s *SQL) Ping(ctx context.Context) error {
	return s.Client(ctx).PingContext(ctx) //nolint:wrapcheck
}

func (s *SQL) Close(ctx context.Context) {
	if s.value == nil {
		return
	}

	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqlClient.Close", logx.Error(err))
	}

	logger(ctx).Info("database disconnected", slog.String("driver", s.Driver))
}
