package db

import (
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector opens, tunes the pool and pings. Split out so tests can
// hand in a dialector over sqlmock or sqlite.
func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               newLogger(),
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	logrus.WithField("module", "db").Info("gorm: connected")
	return db, nil
}

// Migrate creates or alters tables for models.
func Migrate(db *gorm.DB, models ...any) error {
	return db.AutoMigrate(models...)
}

// newLogger routes gorm's slow-query and error output through logrus.
func newLogger() logger.Interface {
	w := logrus.WithField("module", "gorm").WriterLevel(logrus.WarnLevel)
	return logger.New(
		log.New(w, "", 0),
		logger.Config{
			Colorful:                  false,
			LogLevel:                  logger.Warn,
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
		},
	)
}
