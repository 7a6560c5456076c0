package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod identifies how a payment was settled
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodOther    PaymentMethod = "other"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheck,
		PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentRecord is one settlement applied to an invoice
type PaymentRecord struct {
	ID        uuid.UUID         `json:"id"`
	Amount    valueobject.Money `json:"amount"`
	Method    PaymentMethod     `json:"method"`
	Reference string            `json:"reference,omitempty"`
	PaidAt    time.Time         `json:"paid_at"`
}

// PaymentRecords is stored as a JSONB column on the invoice
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for database storage
func (p PaymentRecords) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *PaymentRecords) Scan(value any) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into PaymentRecords", value)
	}

	if len(data) == 0 {
		*p = PaymentRecords{}
		return nil
	}
	return json.Unmarshal(data, p)
}
