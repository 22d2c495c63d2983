package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Service is a bookable offering of the studio.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"` // minutes
	Description string          `json:"description"`
}

// ServiceFields is a Service without its store-assigned id.
type ServiceFields struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"`
	Description string          `json:"description"`
}

// Fields strips the id.
func (s Service) Fields() ServiceFields {
	return ServiceFields{
		Name:        s.Name,
		Price:       s.Price,
		Duration:    s.Duration,
		Description: s.Description,
	}
}

// WithID builds the full record.
func (f ServiceFields) WithID(id string) Service {
	return Service{
		ID:          id,
		Name:        f.Name,
		Price:       f.Price,
		Duration:    f.Duration,
		Description: f.Description,
	}
}

// MissingServiceName is shown for appointments whose service no longer exists.
const MissingServiceName = "Serviço"

// ServiceCatalog resolves service ids. Appointments may point at services that were
// deleted, so lookups are always allowed to miss.
type ServiceCatalog map[string]Service

// NewServiceCatalog indexes services by id.
func NewServiceCatalog(services []Service) ServiceCatalog {
	catalog := make(ServiceCatalog, len(services))
	for _, s := range services {
		catalog[s.ID] = s
	}
	return catalog
}

// Lookup returns the service with the given id, if any.
func (c ServiceCatalog) Lookup(id string) (Service, bool) {
	s, ok := c[id]
	return s, ok
}

// PriceOf is the price of the service, zero when it is absent.
func (c ServiceCatalog) PriceOf(id string) decimal.Decimal {
	if s, ok := c[id]; ok {
		return s.Price
	}
	return decimal.Zero
}

// NameOf is the service name, or MissingServiceName when it is absent.
func (c ServiceCatalog) NameOf(id string) string {
	if s, ok := c[id]; ok && s.Name != "" {
		return s.Name
	}
	return MissingServiceName
}
