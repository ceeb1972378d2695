package links

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikepea/tinylink/pkg/tinylink/cache"
	"github.com/mikepea/tinylink/pkg/tinylink/models"
	"gorm.io/gorm"
)

// Options configures a Service
type Options struct {
	Table   string
	BaseURL string
	Cache   cache.Cache
}

// Service owns link persistence and code allocation
type Service struct {
	db      *gorm.DB
	table   string
	baseURL string
	cache   cache.Cache
	newCode func() (string, error)
}

// CreatedLink is a freshly inserted link plus its public short URL
type CreatedLink struct {
	models.Link
	ShortURL string `json:"shortUrl"`
}

// NewService creates a link service on top of db
func NewService(db *gorm.DB, opts Options) *Service {
	if opts.Table == "" {
		opts.Table = models.DefaultLinksTable
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	return &Service{
		db:      db,
		table:   opts.Table,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		cache:   opts.Cache,
		newCode: randomCode,
	}
}

func (s *Service) links(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// ShortURL joins the public base URL and code
func (s *Service) ShortURL(code string) string {
	return s.baseURL + "/" + code
}

// Create validates the request, allocates a code if none was given and inserts the link.
func (s *Service) Create(ctx context.Context, rawURL, code string) (*CreatedLink, error) {
	if !IsWebURI(rawURL) {
		return nil, &ValidationError{"Invalid URL"}
	}

	code = strings.TrimSpace(code)
	if code != "" {
		if !ValidCode(code) {
			return nil, &ValidationError{"Code must be 6-8 alphanumeric characters"}
		}
		taken, err := s.exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrCodeTaken
		}
	} else {
		var err error
		if code, err = s.generateCode(ctx); err != nil {
			return nil, err
		}
	}

	link := models.Link{Code: code, URL: rawURL}
	if err := s.links(ctx).Create(&link).Error; err != nil {
		// Lost a race with another creator between the check and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}

	return &CreatedLink{Link: link, ShortURL: s.ShortURL(code)}, nil
}

func (s *Service) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt <= maxCodeRetries; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		taken, err := s.exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}

func (s *Service) exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := s.links(ctx).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return count > 0, nil
}

// List returns every link, newest first
func (s *Service) List(ctx context.Context) ([]models.Link, error) {
	links := []models.Link{}
	if err := s.links(ctx).Order("created_at DESC").Order("id DESC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Get returns the link for code without touching its counters
func (s *Service) Get(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	if err := s.links(ctx).Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &link, nil
}

// Delete hard-deletes the link for code
func (s *Service) Delete(ctx context.Context, code string) error {
	result := s.links(ctx).Where("code = ?", code).Delete(&models.Link{})
	if result.Error != nil {
		return fmt.Errorf("delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	if err := s.cache.Delete(ctx, code); err != nil {
		log.Printf("Failed to evict %s from cache: %v", code, err)
	}
	return nil
}

// Resolve returns the target URL for code, preferring the cache
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if url, err := s.cache.Get(ctx, code); err == nil {
		return url, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Cache lookup for %s failed: %v", code, err)
	}

	var link models.Link
	if err := s.links(ctx).Select("url").Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("resolve link: %w", err)
	}

	if err := s.cache.Set(ctx, code, link.URL); err != nil {
		log.Printf("Failed to cache %s: %v", code, err)
	}
	return link.URL, nil
}

// RecordClick bumps the click counter and stamps the last-clicked time.
// A link deleted since it was resolved matches no rows; its cache entry is
// dropped and ErrNotFound is returned so stale cache hits never redirect.
func (s *Service) RecordClick(ctx context.Context, code string, at time.Time) error {
	result := s.links(ctx).Where("code = ?", code).Updates(map[string]interface{}{
		"clicks":       gorm.Expr("clicks + 1"),
		"last_clicked": at,
	})
	if result.Error != nil {
		return fmt.Errorf("record click: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := s.cache.Delete(ctx, code); err != nil {
			log.Printf("Failed to evict %s from cache: %v", code, err)
		}
		return ErrNotFound
	}
	return nil
}

// Restore inserts a previously exported link, keeping its code, counters and
// timestamps. Restored codes must satisfy the same rules as custom codes.
func (s *Service) Restore(ctx context.Context, link models.Link) (*models.Link, error) {
	if !IsWebURI(link.URL) {
		return nil, &ValidationError{"Invalid URL"}
	}
	link.Code = strings.TrimSpace(link.Code)
	if !ValidCode(link.Code) {
		return nil, &ValidationError{"Code must be 6-8 alphanumeric characters"}
	}
	if link.Clicks < 0 {
		return nil, &ValidationError{"Clicks must not be negative"}
	}

	link.ID = 0
	if err := s.links(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("restore link: %w", err)
	}
	return &link, nil
}
