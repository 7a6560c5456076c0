package billing

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	userRoles  = identity.NewRoleSet("USER")
	adminRoles = identity.NewRoleSet("ADMIN")
)

func persistedInvoice(t *testing.T, number string) *billing.Invoice {
	t.Helper()
	now := time.Now()
	client := testClient(t)
	inv, err := billing.NewInvoice(client.ID, client.DisplayName(), now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, inv.AssignNumber(number))
	inv.ClearDomainEvents()
	return inv
}

func issuedInvoice(t *testing.T, number string) *billing.Invoice {
	t.Helper()
	inv := persistedInvoice(t, number)
	snapshot, err := billing.NewManualLineSnapshot("Consulting",
		valueobject.NewMoneyEURFromFloat(100),
		valueobject.MustNewRate(decimal.RequireFromString("0.20")),
		decimal.NewFromInt(2), valueobject.ZeroRate())
	require.NoError(t, err)
	require.NoError(t, inv.AddLine(snapshot))
	require.NoError(t, inv.Issue(userRoles))
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	clientRepo := new(MockClientRepository)
	productRepo := new(MockProductRepository)
	service := NewInvoiceService(invoiceRepo, clientRepo, productRepo, testDefaults)

	client := testClient(t)
	product := testProduct(t)

	clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
		Run(func(args mock.Arguments) {
			inv := args.Get(1).(*billing.Invoice)
			require.NoError(t, inv.AssignNumber("FAC-2026-00001"))
		}).Return(nil)

	resp, err := service.Create(context.Background(), CreateInvoiceRequest{
		ClientID: client.ID,
		Lines: []LineRequest{
			{ProductID: &product.ID, Quantity: decimal.NewFromInt(2), DiscountRate: decimal.Zero},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-00001", resp.Number)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, "200.00", resp.TotalHT)
	assert.Equal(t, "240.00", resp.TotalTTC)
	assert.Equal(t, "240.00", resp.Outstanding)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_NumberGenerationFailure(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	clientRepo := new(MockClientRepository)
	service := NewInvoiceService(invoiceRepo, clientRepo, new(MockProductRepository), testDefaults)

	client := testClient(t)
	clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
		Return(billing.ErrNumberGenerationFailed)

	_, err := service.Create(context.Background(), CreateInvoiceRequest{ClientID: client.ID})
	assert.ErrorIs(t, err, billing.ErrNumberGenerationFailed)
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo, new(MockClientRepository), new(MockProductRepository), testDefaults)

	inv := issuedInvoice(t, "FAC-2026-00002")
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("Save", mock.Anything, inv).Return(nil)

	resp, err := service.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(120),
		Method: "transfer",
	}, userRoles)

	require.NoError(t, err)
	assert.Equal(t, "partially_paid", resp.Status)
	assert.Equal(t, "120.00", resp.PaidAmount)
	assert.Equal(t, "120.00", resp.Outstanding)
	require.Len(t, resp.Payments, 1)

	resp, err = service.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(120),
		Method: "card",
	}, userRoles)

	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "0.00", resp.Outstanding)
}

func TestInvoiceService_RecordPayment_InvalidMethod(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo, new(MockClientRepository), new(MockProductRepository), testDefaults)

	inv := issuedInvoice(t, "FAC-2026-00003")
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := service.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(10),
		Method: "iou",
	}, userRoles)

	require.Error(t, err)
	invoiceRepo.AssertNotCalled(t, "Save")
}

func TestInvoiceService_Reopen_RoleGate(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo, new(MockClientRepository), new(MockProductRepository), testDefaults)

	inv := issuedInvoice(t, "FAC-2026-00004")
	require.NoError(t, inv.RecordPayment(inv.TotalTTC, billing.PaymentMethodTransfer, "VIR-1", time.Now(), userRoles))
	require.NoError(t, inv.Refund(userRoles))
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := service.Reopen(context.Background(), inv.ID, userRoles)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Equal(t, billing.InvoiceStatusRefunded, inv.Status)
	invoiceRepo.AssertNotCalled(t, "Save")

	invoiceRepo.On("Save", mock.Anything, inv).Return(nil)
	resp, err := service.Reopen(context.Background(), inv.ID, adminRoles)
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, "0.00", resp.PaidAmount)
	assert.Len(t, resp.Payments, 1)
}

func TestInvoiceService_IllegalTransition(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo, new(MockClientRepository), new(MockProductRepository), testDefaults)

	inv := persistedInvoice(t, "FAC-2026-00005")
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := service.Refund(context.Background(), inv.ID, adminRoles)
	require.Error(t, err)
	var transErr *billing.TransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "draft", transErr.From)
	assert.Equal(t, billing.InvoiceStatusDraft, inv.Status)
	invoiceRepo.AssertNotCalled(t, "Save")
}
