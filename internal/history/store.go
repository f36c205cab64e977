// Package history persists the watch history and the last resolved selection
// in a local sqlite database.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const lastWatchID = 1

// Store is the history database.
type Store struct {
	db       *gorm.DB
	maxItems int
}

// Open opens (creating if needed) the database at path and migrates it.
// maxItems bounds the history list; zero or less uses the default.
func Open(path string, maxItems int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}, &LastWatch{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	if maxItems <= 0 {
		maxItems = config.DefaultHistoryItems
	}
	return &Store{db: db, maxItems: maxItems}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add puts item at the head of the history. An existing entry with the same id
// is moved rather than duplicated, and the list is trimmed to its bound.
func (s *Store) Add(item models.CatalogItem) error {
	if item.ID == "" {
		return errors.New("history entry has no media id")
	}
	logger := config.GetLogger()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&Entry{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		if err := tx.Where("media_id = ?", item.ID).Delete(&Entry{}).Error; err != nil {
			return err
		}

		entry := entryFromItem(item)
		entry.Seq = maxSeq + 1
		entry.WatchedAt = time.Now()
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		var ordered []string
		if err := tx.Model(&Entry{}).Order("seq DESC").Pluck("media_id", &ordered).Error; err != nil {
			return err
		}
		if len(ordered) > s.maxItems {
			return tx.Where("media_id IN ?", ordered[s.maxItems:]).Delete(&Entry{}).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add %q to history: %w", item.ID, err)
	}

	logger.Debug().Str("mediaId", item.ID).Str("title", item.Title).Msg("Added to history")
	return nil
}

// List returns the history, newest first.
func (s *Store) List() ([]models.CatalogItem, error) {
	var entries []Entry
	if err := s.db.Order("seq DESC").Limit(s.maxItems).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	items := make([]models.CatalogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item())
	}
	return items, nil
}

// Remove deletes one media item from the history.
func (s *Store) Remove(mediaID string) error {
	if err := s.db.Where("media_id = ?", mediaID).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q from history: %w", mediaID, err)
	}
	return nil
}

// Clear empties the history list. The last watch record is kept.
func (s *Store) Clear() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// SaveLastWatch replaces the last watch record, stamping it with the current time.
func (s *Store) SaveLastWatch(record LastWatch) error {
	record.ID = lastWatchID
	record.WatchedAt = time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", lastWatchID).Delete(&LastWatch{}).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save last watch: %w", err)
	}
	return nil
}

// LastWatch returns the last watch record, or nil when none was saved.
func (s *Store) LastWatch() (*LastWatch, error) {
	var record LastWatch
	err := s.db.Where("id = ?", lastWatchID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last watch: %w", err)
	}
	return &record, nil
}

// ClearLastWatch removes the last watch record.
func (s *Store) ClearLastWatch() error {
	if err := s.db.Where("id = ?", lastWatchID).Delete(&LastWatch{}).Error; err != nil {
		return fmt.Errorf("failed to clear last watch: %w", err)
	}
	return nil
}
