package db

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campusconnect/campus-api/internal/config"
)

// Handle hands out a shared *gorm.DB. The connection is opened on first use and kept
// once an open succeeds. A failed open is returned to its caller and the next Conn tries again.
type Handle struct {
	open func() (*gorm.DB, error)

	mu sync.Mutex
	db atomic.Pointer[gorm.DB]
}

func NewHandle(open func() (*gorm.DB, error)) *Handle {
	return &Handle{open: open}
}

// Static wraps an already opened connection.
func Static(db *gorm.DB) *Handle {
	h := &Handle{}
	h.db.Store(db)

	return h
}

func (h *Handle) Conn(ctx context.Context) (*gorm.DB, error) {
	if db := h.db.Load(); db != nil {
		return db.WithContext(ctx), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if db := h.db.Load(); db != nil {
		return db.WithContext(ctx), nil
	}
	db, err := h.open()
	if err != nil {
		return nil, err
	}
	h.db.Store(db)

	return db.WithContext(ctx), nil
}

// Postgres returns a lazy handle for the configured database. DATABASE_URL wins when set.
func Postgres(conf *config.PostgresConfig, databaseURL string) *Handle {
	return NewHandle(func() (*gorm.DB, error) {
		if databaseURL != "" {
			return OpenPostgresWithURL(databaseURL)
		}

		return OpenPostgres(conf)
	})
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	zap.L().Info("connected to postgres")

	return db, nil
}
