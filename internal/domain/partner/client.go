package partner

import (
	"regexp"
	"strings"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

var sirenPattern = regexp.MustCompile(`^\d{9}$`)

// Client is a billable customer. Quotes and invoices keep their own copy of
// the client name, so renaming a client never rewrites issued documents.
type Client struct {
	shared.BaseAggregateRoot
	LegalName   string              `gorm:"type:varchar(255);not null"`
	ContactName string              `gorm:"type:varchar(255)"`
	Email       string              `gorm:"type:varchar(255)"`
	Phone       string              `gorm:"type:varchar(32)"`
	Siren       string              `gorm:"type:varchar(9)"`
	VATNumber   string              `gorm:"type:varchar(32)"`
	Address     valueobject.Address `gorm:"type:jsonb"`
	TaxSubject  bool                `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with validation
func NewClient(legalName string) (*Client, error) {
	legalName = strings.TrimSpace(legalName)
	if legalName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client legal name is required")
	}
	if len(legalName) > 255 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client legal name cannot exceed 255 characters")
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LegalName:         legalName,
		TaxSubject:        true,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))
	return client, nil
}

// UpdateContact sets the contact details
func (c *Client) UpdateContact(contactName, email, phone string) {
	c.ContactName = strings.TrimSpace(contactName)
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
}

// UpdateLegalName renames the client going forward
func (c *Client) UpdateLegalName(legalName string) error {
	legalName = strings.TrimSpace(legalName)
	if legalName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Client legal name is required")
	}
	c.LegalName = legalName
	return nil
}

// SetRegistration sets the SIREN and intra-community VAT number
func (c *Client) SetRegistration(siren, vatNumber string) error {
	siren = strings.TrimSpace(siren)
	if siren != "" && !sirenPattern.MatchString(siren) {
		return shared.NewDomainError("INVALID_INPUT", "SIREN must be 9 digits")
	}
	c.Siren = siren
	c.VATNumber = strings.TrimSpace(vatNumber)
	return nil
}

// SetAddress sets the postal address
func (c *Client) SetAddress(address valueobject.Address) {
	c.Address = address
}

// SetTaxSubject flags whether the client is subject to VAT
func (c *Client) SetTaxSubject(subject bool) {
	c.TaxSubject = subject
}

// DisplayName returns the name to print on documents
func (c *Client) DisplayName() string {
	return c.LegalName
}
