package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db        *gorm.DB
	sequences *SequenceAllocator
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB, sequences *SequenceAllocator) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, sequences: sequences}
}

// Create allocates the next invoice number and inserts the invoice with its
// lines in a single transaction. Allocation conflicts roll back and retry
// the whole unit.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return r.sequences.Allocate(ctx, billing.DocumentTypeInvoice, func(tx *gorm.DB, number string) error {
		// a retried attempt draws a fresh number
		invoice.Number = ""
		if err := invoice.AssignNumber(number); err != nil {
			return err
		}
		return tx.Create(invoice).Error
	})
}

// FindByID finds an invoice with its lines by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&invoice, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter, true)

	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save updates the invoice row under optimistic locking and replaces its
// lines. Payments travel in the invoice row itself.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := invoice.GetVersion()
		invoice.IncrementVersion()

		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Select("*").Omit("Lines", "id", "created_at").
			Updates(invoice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			invoice.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&billing.InvoiceLine{}).Error; err != nil {
			return err
		}
		if len(invoice.Lines) > 0 {
			if err := tx.Create(&invoice.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an invoice; its lines go with it via the FK cascade
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClient counts all invoices referencing the client
func (r *GormInvoiceRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
