package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"safecity/backend/internal/config"
	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ReportsCreatedChannel carries every newly created report as JSON.
const ReportsCreatedChannel = "reports:created"

// Storage is the data provider. Absent records are reported as (nil, nil).
type Storage interface {
	ListReports(ctx context.Context) ([]models.Report, error)
	GetReportByCaseNumber(ctx context.Context, caseNumber string) (*models.Report, error)
	CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error)

	ListNotices(ctx context.Context) ([]models.Notice, error)
	ListBlogs(ctx context.Context) ([]models.BlogSummary, error)
}

// Service is the postgres backed provider. Redis is optional and only used
// for the case lookup cache and for announcing created reports.
type Service struct {
	DB          *gorm.DB
	Redis       *redis.Client
	CaseNumbers *CaseNumberGenerator
	Now         func() time.Time
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:          db,
		Redis:       rdb,
		CaseNumbers: NewCaseNumberGenerator(),
		Now:         time.Now,
	}
}

// Migrate creates or updates the tables of every persisted model.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Report{},
		&models.Notice{},
		&models.BlogSummary{},
		&models.User{},
	)
}

// SeedIfEmpty loads the fixture into an empty reports table.
func (s *Service) SeedIfEmpty(ctx context.Context, seed *Seed) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Report{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(seed.Reports) > 0 {
			if err := tx.Create(&seed.Reports).Error; err != nil {
				return fmt.Errorf("seed reports: %w", err)
			}
		}
		if len(seed.Notices) > 0 {
			if err := tx.Create(&seed.Notices).Error; err != nil {
				return fmt.Errorf("seed notices: %w", err)
			}
		}
		if len(seed.Blogs) > 0 {
			if err := tx.Create(&seed.Blogs).Error; err != nil {
				return fmt.Errorf("seed blogs: %w", err)
			}
		}
		return nil
	})
}

// ListReports returns every report, oldest first.
func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&reports).Error; err != nil {
		logger.Error("Failed to list reports: %v", err)
		return nil, err
	}
	return reports, nil
}

// GetReportByCaseNumber looks in the redis cache first, then in postgres.
func (s *Service) GetReportByCaseNumber(ctx context.Context, caseNumber string) (*models.Report, error) {
	if cached, ok := s.cachedReport(ctx, caseNumber); ok {
		return cached, nil
	}

	var report models.Report
	err := s.DB.WithContext(ctx).Where("case_number = ?", caseNumber).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to get report %s: %v", caseNumber, err)
		return nil, err
	}

	s.cacheReport(ctx, &report)
	return &report, nil
}

// CreateReport assigns identity, case number and lifecycle defaults and inserts the row.
func (s *Service) CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error) {
	db := s.DB.WithContext(ctx)

	caseNumber, err := s.CaseNumbers.Next(func(candidate string) (bool, error) {
		var n int64
		err := db.Model(&models.Report{}).Where("case_number = ?", candidate).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return nil, err
	}

	report := NewReport(in, uuid.NewString(), caseNumber, s.Now())
	if err := db.Create(report).Error; err != nil {
		logger.Error("Failed to save report %s: %v", caseNumber, err)
		return nil, err
	}

	s.announce(ctx, report)
	return report, nil
}

func (s *Service) ListNotices(ctx context.Context) ([]models.Notice, error) {
	var notices []models.Notice
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (s *Service) ListBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	var blogs []models.BlogSummary
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// SubscribeCreated listens for reports created by any API instance.
func (s *Service) SubscribeCreated(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, ReportsCreatedChannel)
}

func caseKey(caseNumber string) string { return "case:" + caseNumber }

func (s *Service) cachedReport(ctx context.Context, caseNumber string) (*models.Report, bool) {
	if s.Redis == nil {
		return nil, false
	}
	raw, err := s.Redis.Get(ctx, caseKey(caseNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warning("case cache read failed for %s: %v", caseNumber, err)
		return nil, false
	}
	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (s *Service) cacheReport(ctx context.Context, report *models.Report) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, caseKey(report.CaseNumber), raw, config.CaseLookupTTL).Err(); err != nil {
		logger.Warning("case cache write failed for %s: %v", report.CaseNumber, err)
	}
}

func (s *Service) announce(ctx context.Context, report *models.Report) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.Redis.Publish(ctx, ReportsCreatedChannel, raw).Err(); err != nil {
		logger.Warning("failed to announce report %s: %v", report.CaseNumber, err)
	}
}

// NewReport applies the provider-side defaults to a reporter's input.
func NewReport(in models.CreateReportInput, id, caseNumber string, now time.Time) *models.Report {
	reportType := in.Type
	if reportType == "" {
		reportType = config.DefaultReportType
	}
	location := models.Location{Address: config.DefaultAddress}
	if in.Location != nil {
		location = *in.Location
	}

	return &models.Report{
		ID:            id,
		CaseNumber:    caseNumber,
		Type:          reportType,
		Description:   in.Description,
		Location:      location,
		Status:        models.StatusPending,
		Priority:      models.PriorityMedium,
		CreatedAt:     now.UTC(),
		IsAnonymous:   in.IsAnonymous,
		EvidenceCount: 0,
	}
}
