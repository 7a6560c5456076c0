package partner

import (
	"context"
	"testing"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindBySiren(ctx context.Context, siren string) (*partner.Client, error) {
	args := m.Called(ctx, siren)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuoteRepository is a mock implementation of billing.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *billing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByNumber(ctx context.Context, number string) (*billing.Quote, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Quote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func newService(clientRepo *MockClientRepository, quoteRepo *MockQuoteRepository, invoiceRepo *MockInvoiceRepository) *ClientService {
	return NewClientService(clientRepo, quoteRepo, invoiceRepo)
}

func existingClient(t *testing.T) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Acme SARL")
	require.NoError(t, err)
	client.ClearDomainEvents()
	return client
}

func TestClientService_Create(t *testing.T) {
	clientRepo := new(MockClientRepository)
	service := newService(clientRepo, new(MockQuoteRepository), new(MockInvoiceRepository))

	clientRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Client")).Return(nil)

	resp, err := service.Create(context.Background(), CreateClientRequest{
		LegalName:   "Acme SARL",
		ContactName: "Jean Dupont",
		Email:       "jean@acme.fr",
		Siren:       "123456789",
		Address: &AddressRequest{
			Street:     "1 rue de la Paix",
			PostalCode: "75002",
			City:       "Paris",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme SARL", resp.LegalName)
	assert.Equal(t, "123456789", resp.Siren)
	assert.Equal(t, "France", resp.Address.Country)
	assert.True(t, resp.TaxSubject)
	clientRepo.AssertExpectations(t)
}

func TestClientService_Create_InvalidSiren(t *testing.T) {
	clientRepo := new(MockClientRepository)
	service := newService(clientRepo, new(MockQuoteRepository), new(MockInvoiceRepository))

	_, err := service.Create(context.Background(), CreateClientRequest{
		LegalName: "Acme SARL",
		Siren:     "12AB",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	clientRepo.AssertNotCalled(t, "Save")
}

func TestClientService_Update_Rename(t *testing.T) {
	clientRepo := new(MockClientRepository)
	service := newService(clientRepo, new(MockQuoteRepository), new(MockInvoiceRepository))

	client := existingClient(t)
	clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	clientRepo.On("Save", mock.Anything, client).Return(nil)

	name := "Acme SAS"
	resp, err := service.Update(context.Background(), client.ID, UpdateClientRequest{LegalName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", resp.LegalName)
}

func TestClientService_Delete_BlockedWhileReferenced(t *testing.T) {
	clientRepo := new(MockClientRepository)
	quoteRepo := new(MockQuoteRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := newService(clientRepo, quoteRepo, invoiceRepo)

	client := existingClient(t)
	clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	quoteRepo.On("CountByClient", mock.Anything, client.ID).Return(int64(0), nil)
	invoiceRepo.On("CountByClient", mock.Anything, client.ID).Return(int64(2), nil)

	err := service.Delete(context.Background(), client.ID)
	assert.ErrorIs(t, err, shared.ErrClientInUse)
	clientRepo.AssertNotCalled(t, "Delete")
}

func TestClientService_Delete(t *testing.T) {
	clientRepo := new(MockClientRepository)
	quoteRepo := new(MockQuoteRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := newService(clientRepo, quoteRepo, invoiceRepo)

	client := existingClient(t)
	clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	quoteRepo.On("CountByClient", mock.Anything, client.ID).Return(int64(0), nil)
	invoiceRepo.On("CountByClient", mock.Anything, client.ID).Return(int64(0), nil)
	clientRepo.On("Delete", mock.Anything, client.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), client.ID))
	clientRepo.AssertExpectations(t)
}
