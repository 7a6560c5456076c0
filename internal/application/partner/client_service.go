package partner

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ClientService handles client business operations
type ClientService struct {
	clientRepo     partner.ClientRepository
	quoteRepo      billing.QuoteRepository
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, quoteRepo billing.QuoteRepository, invoiceRepo billing.InvoiceRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ClientService) publishEvents(ctx context.Context, client *partner.Client) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, client.GetDomainEvents()...)
	client.ClearDomainEvents()
}

func toAddress(req *AddressRequest) (valueobject.Address, error) {
	if req == nil || (req.Street == "" && req.PostalCode == "" && req.City == "") {
		return valueobject.EmptyAddress(), nil
	}
	opts := make([]valueobject.AddressOption, 0, 2)
	if req.Complement != "" {
		opts = append(opts, valueobject.WithComplement(req.Complement))
	}
	if req.Country != "" {
		opts = append(opts, valueobject.WithCountry(req.Country))
	}
	addr, err := valueobject.NewAddress(req.Street, req.PostalCode, req.City, opts...)
	if err != nil {
		return valueobject.Address{}, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return addr, nil
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.LegalName)
	if err != nil {
		return nil, err
	}

	client.UpdateContact(req.ContactName, req.Email, req.Phone)
	if err := client.SetRegistration(req.Siren, req.VATNumber); err != nil {
		return nil, err
	}
	addr, err := toAddress(req.Address)
	if err != nil {
		return nil, err
	}
	client.SetAddress(addr)
	if req.TaxSubject != nil {
		client.SetTaxSubject(*req.TaxSubject)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, client)
	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// GetBySiren retrieves a client by SIREN
func (s *ClientService) GetBySiren(ctx context.Context, siren string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindBySiren(ctx, siren)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter ListFilter) (shared.Paginated[ClientResponse], error) {
	domainFilter := filter.toDomainFilter()

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ClientResponse]{}, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ClientResponse]{}, err
	}

	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes a client's details. Documents keep the client name they
// snapshotted at creation time.
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LegalName != nil {
		if err := client.UpdateLegalName(*req.LegalName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Email != nil || req.Phone != nil {
		contactName := client.ContactName
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		email := client.Email
		if req.Email != nil {
			email = *req.Email
		}
		phone := client.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		client.UpdateContact(contactName, email, phone)
	}
	if req.Siren != nil || req.VATNumber != nil {
		siren := client.Siren
		if req.Siren != nil {
			siren = *req.Siren
		}
		vatNumber := client.VATNumber
		if req.VATNumber != nil {
			vatNumber = *req.VATNumber
		}
		if err := client.SetRegistration(siren, vatNumber); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		addr, err := toAddress(req.Address)
		if err != nil {
			return nil, err
		}
		client.SetAddress(addr)
	}
	if req.TaxSubject != nil {
		client.SetTaxSubject(*req.TaxSubject)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client. Refused while any quote or invoice references the
// client, since issued documents must stay traceable.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	quotes, err := s.quoteRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	invoices, err := s.invoiceRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if quotes > 0 || invoices > 0 {
		return shared.ErrClientInUse
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, partner.NewClientDeletedEvent(client))
	}
	return nil
}
