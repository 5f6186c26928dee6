package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projector/internal/model"
)

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&model.Role{},
		&model.User{},
		&model.AuditLog{},
		&model.Client{},
		&model.Project{},
		&model.Requirement{},
		&model.Estimation{},
		&model.Quotation{},
		&model.Task{},
		&model.Bug{},
		&model.Document{},
		&model.Credential{},
		&model.DecisionLog{},
		&model.Message{},
	}
}

// NewConnection prepares the connection pool without dialing. An unreachable server is
// reported by Ping, so the process can start and serve health checks while it waits.
func NewConnection(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Migrate creates or updates the tables of every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Ping checks that the database answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WaitReady pings every interval until the database answers or ctx ends
func WaitReady(ctx context.Context, db *gorm.DB, interval time.Duration, log logrus.FieldLogger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := Ping(ctx, db)
		if err == nil {
			return nil
		}
		log.WithError(err).WithField("attempt", attempt).Warn("database not reachable yet")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
