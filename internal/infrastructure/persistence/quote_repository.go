package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db        *gorm.DB
	sequences *SequenceAllocator
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB, sequences *SequenceAllocator) *GormQuoteRepository {
	return &GormQuoteRepository{db: db, sequences: sequences}
}

// Create allocates the next quote number and inserts the quote with its
// lines in a single transaction. On rollback the number allocation rolls
// back too, so the sequence stays gapless; allocation conflicts retry the
// whole unit.
func (r *GormQuoteRepository) Create(ctx context.Context, quote *billing.Quote) error {
	return r.sequences.Allocate(ctx, billing.DocumentTypeQuote, func(tx *gorm.DB, number string) error {
		// a retried attempt draws a fresh number
		quote.Number = ""
		if err := quote.AssignNumber(number); err != nil {
			return err
		}
		return tx.Create(quote).Error
	})
}

// FindByID finds a quote with its lines by ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByNumber finds a quote by its document number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, number string) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quote, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAll finds all quotes matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Quote, error) {
	var quotes []billing.Quote
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&billing.Quote{}), filter, true)

	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save updates the quote row under optimistic locking and replaces its
// lines. A stale version yields ErrConcurrencyConflict.
func (r *GormQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := quote.GetVersion()
		quote.IncrementVersion()

		result := tx.Model(&billing.Quote{}).
			Where("id = ? AND version = ?", quote.ID, currentVersion).
			Select("*").Omit("Lines", "id", "created_at").
			Updates(quote)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			quote.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("quote_id = ?", quote.ID).Delete(&billing.QuoteLine{}).Error; err != nil {
			return err
		}
		if len(quote.Lines) > 0 {
			if err := tx.Create(&quote.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a quote; its lines go with it via the FK cascade
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Quote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&billing.Quote{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClient counts all quotes referencing the client
func (r *GormQuoteRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Quote{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyDocumentFilter applies the shared filter options common to quotes
// and invoices: search on number and client name, status and client_id
// filters, ordering, and (optionally) pagination.
func applyDocumentFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR client_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	if paginate {
		if filter.OrderBy != "" {
			orderDir := "ASC"
			if strings.ToLower(filter.OrderDir) == "desc" {
				orderDir = "DESC"
			}
			query = query.Order(filter.OrderBy + " " + orderDir)
		} else {
			query = query.Order("issue_date DESC, number DESC")
		}

		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset(filter.Offset()).Limit(filter.PageSize)
		}
	}

	return query
}

var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)
