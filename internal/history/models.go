package history

import (
	"time"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// Entry is one media item of the watch history.
type Entry struct {
	MediaID     string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	URL         string `gorm:"not null"`
	PosterURL   string
	Year        string
	ContentType string
	// Seq orders entries, newest highest.
	Seq       int64     `gorm:"not null;index"`
	WatchedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "history"
}

func entryFromItem(item models.CatalogItem) Entry {
	return Entry{
		MediaID:     item.ID,
		Title:       item.Title,
		URL:         item.URL,
		PosterURL:   item.PosterURL,
		Year:        item.Year,
		ContentType: item.ContentType,
	}
}

func (e Entry) item() models.CatalogItem {
	return models.CatalogItem{
		ID:          e.MediaID,
		Title:       e.Title,
		URL:         e.URL,
		PosterURL:   e.PosterURL,
		Year:        e.Year,
		ContentType: e.ContentType,
	}
}

// LastWatch is the selection the user resolved most recently, used to resume.
type LastWatch struct {
	ID               uint `gorm:"primaryKey"`
	MediaID          string
	MediaTitle       string
	MediaURL         string
	TranslationID    string
	TranslationTitle string
	SeasonID         string
	SeasonTitle      string
	EpisodeID        string
	EpisodeTitle     string
	Quality          string
	WatchedAt        time.Time
}

// TableName overrides the table name
func (LastWatch) TableName() string {
	return "last_watch"
}
