package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/entities"
	"github.com/mrlokans/mediashelf/internal/logger"
)

// WAL lets readers proceed during writes; _txlock=immediate takes the write
// lock at BEGIN so read-then-write transactions serialize instead of
// failing with SQLITE_BUSY on upgrade.
const dsnParams = "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// Partial unique indexes gorm tags cannot express.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_contents_manual_type_title
		ON contents(type, title) WHERE origin = 'manual'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_interactions_unique_rate_like
		ON interactions(user_id, content_id, type) WHERE type IN ('rate', 'like')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique
		ON users(email) WHERE email <> ''`,
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(dbPath+dsnParams), &gorm.Config{
		Logger:         logger.Gorm(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Content{},
		&entities.ContentExternalID{},
		&entities.Interaction{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := backfillSearchText(db); err != nil {
		return nil, err
	}

	log.Info("database initialized", zap.String("path", dbPath))

	return &Database{DB: db}, nil
}

// backfillSearchText fills search_text for rows stored before the column
// existed.
func backfillSearchText(db *gorm.DB) error {
	var batch []entities.Content
	err := db.Select("id", "title", "description").
		Where("search_text = ''").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				batch[i].RefreshSearchText()
				err := tx.Model(&entities.Content{}).
					Where("id = ?", batch[i].ID).
					UpdateColumn("search_text", batch[i].SearchText).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("failed to backfill search text: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation reports whether err comes from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
