package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/infrastructure/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequence is one counter row per document series. With yearly reset
// enabled each year gets its own row; otherwise a single row (period 0)
// carries the counter forever.
type NumberSequence struct {
	DocType   string    `gorm:"primaryKey;type:varchar(16)"`
	Period    int       `gorm:"primaryKey"`
	Counter   int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name
func (NumberSequence) TableName() string {
	return "number_sequences"
}

// SequenceAllocator hands out gapless document numbers. The counter row is
// locked with SELECT ... FOR UPDATE so concurrent allocations serialize per
// document type and never produce duplicates.
type SequenceAllocator struct {
	db  *gorm.DB
	cfg config.BillingConfig
	now func() time.Time
}

// NewSequenceAllocator creates a new sequence allocator
func NewSequenceAllocator(db *gorm.DB, cfg config.BillingConfig) *SequenceAllocator {
	return &SequenceAllocator{db: db, cfg: cfg, now: time.Now}
}

// allocationError marks a failure in the allocation step itself, the only
// step a retry can help with. Persist failures pass through untouched.
type allocationError struct{ err error }

func (e *allocationError) Error() string { return e.err.Error() }
func (e *allocationError) Unwrap() error { return e.err }

// Allocate draws the next number for docType and hands it to persist inside
// the same transaction, so the number commits or rolls back with the
// document. When the allocation step fails the whole unit is rolled back
// and retried up to the configured bound: two callers racing to insert the
// first counter row of a new period leave the loser with a duplicate-key
// error, and only a fresh transaction can see the winner's row. Exhaustion
// surfaces ErrNumberGenerationFailed and nothing is persisted.
func (a *SequenceAllocator) Allocate(ctx context.Context, docType billing.DocumentType, persist func(tx *gorm.DB, number string) error) error {
	retries := a.cfg.SequenceRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := a.NextNumberTx(tx, docType)
			if err != nil {
				return &allocationError{err: err}
			}
			return persist(tx, number)
		})
		if err == nil {
			return nil
		}
		var allocErr *allocationError
		if !errors.As(err, &allocErr) {
			return err
		}
		lastErr = allocErr.err
	}
	return fmt.Errorf("%w: %v", billing.ErrNumberGenerationFailed, lastErr)
}

// NextNumber allocates a number in its own transaction. Prefer Allocate
// when a document rides along: a number drawn here and persisted later
// leaves a gap if the later write fails.
func (a *SequenceAllocator) NextNumber(ctx context.Context, docType billing.DocumentType) (string, error) {
	var number string
	if err := a.Allocate(ctx, docType, func(_ *gorm.DB, n string) error {
		number = n
		return nil
	}); err != nil {
		return "", err
	}
	return number, nil
}

// NextNumberTx allocates the next number inside the caller's transaction
func (a *SequenceAllocator) NextNumberTx(tx *gorm.DB, docType billing.DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", billing.ErrNumberGenerationFailed
	}

	now := a.now()
	period := 0
	if a.cfg.YearlyReset {
		period = now.Year()
	}

	// SQLite (used in tests) has no row locks; serialization there comes
	// from its single-writer model.
	lockTx := tx
	if tx.Dialector.Name() == "postgres" {
		lockTx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq NumberSequence
	err := lockTx.
		Where("doc_type = ? AND period = ?", docType.String(), period).
		First(&seq).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = NumberSequence{
			DocType:   docType.String(),
			Period:    period,
			Counter:   1,
			UpdatedAt: now,
		}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		seq.Counter++
		seq.UpdatedAt = now
		if err := tx.Model(&NumberSequence{}).
			Where("doc_type = ? AND period = ?", seq.DocType, seq.Period).
			Updates(map[string]interface{}{"counter": seq.Counter, "updated_at": seq.UpdatedAt}).Error; err != nil {
			return "", err
		}
	}

	return a.format(docType, now.Year(), seq.Counter), nil
}

// format renders PREFIX-YYYY-NNNNN. The year in the number is always the
// issue year, even when the counter never resets.
func (a *SequenceAllocator) format(docType billing.DocumentType, year int, counter int64) string {
	prefix := a.cfg.QuotePrefix
	if docType == billing.DocumentTypeInvoice {
		prefix = a.cfg.InvoicePrefix
	}
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, a.cfg.NumberPadding, counter)
}

var _ billing.NumberGenerator = (*SequenceAllocator)(nil)
