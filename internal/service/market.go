package service

import (
	"fmt"
	"regexp"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/store"
)

// nameRegex constrains entity names at the API boundary. The core registry
// only requires non-blank names; the API additionally keeps them URL-safe.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// Policy spec types accepted by SetPolicy.
const (
	PolicyUnchanged            = "unchanged"
	PolicyConstantIncrement    = "constant_increment"
	PolicyConstantDecrement    = "constant_decrement"
	PolicyCombinedConstantStep = "combined_constant_step"
)

// PolicySpec describes a price policy to install on an exchange.
type PolicySpec struct {
	Type      string
	Step      int64 // constant_increment / constant_decrement
	Increment int64 // combined_constant_step
	Decrement int64 // combined_constant_step
}

// ListingInfo is the summary view of a listing.
type ListingInfo struct {
	Exchange        string
	Company         string
	TotalShares     int64
	AvailableShares int64
	UnitPrice       int64
}

// HolderInfo is one operator's position in a listing detail view.
type HolderInfo struct {
	Operator string
	Quantity int64
}

// ListingDetail is the full view of a listing, including holders.
type ListingDetail struct {
	ListingInfo
	Holders []HolderInfo
}

// MarketService handles entity creation, listing, policy management, and
// listing queries.
type MarketService struct {
	companies *store.Registry[*domain.Company]
	exchanges *store.Registry[*domain.Exchange]
	operators *store.Registry[*domain.Operator]
}

// NewMarketService creates a new MarketService over the given registries.
func NewMarketService(
	companies *store.Registry[*domain.Company],
	exchanges *store.Registry[*domain.Exchange],
	operators *store.Registry[*domain.Operator],
) *MarketService {
	return &MarketService{
		companies: companies,
		exchanges: exchanges,
		operators: operators,
	}
}

func validateName(kind, name string) error {
	if !nameRegex.MatchString(name) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("%s name must match ^[a-zA-Z0-9._-]{1,64}$", kind),
		}
	}
	return nil
}

// CreateCompany resolves or creates the company with the given name. The
// second return value reports whether the company was newly created.
func (s *MarketService) CreateCompany(name string) (*domain.Company, bool, error) {
	if err := validateName("company", name); err != nil {
		return nil, false, err
	}
	_, known := s.companies.Get(name)
	c, err := s.companies.GetOrCreate(name)
	if err != nil {
		return nil, false, err
	}
	return c, !known, nil
}

// CreateExchange resolves or creates the exchange with the given name.
func (s *MarketService) CreateExchange(name string) (*domain.Exchange, bool, error) {
	if err := validateName("exchange", name); err != nil {
		return nil, false, err
	}
	_, known := s.exchanges.Get(name)
	e, err := s.exchanges.GetOrCreate(name)
	if err != nil {
		return nil, false, err
	}
	return e, !known, nil
}

// CreateOperator resolves or creates the operator with the given name.
func (s *MarketService) CreateOperator(name string) (*domain.Operator, bool, error) {
	if err := validateName("operator", name); err != nil {
		return nil, false, err
	}
	_, known := s.operators.Get(name)
	o, err := s.operators.GetOrCreate(name)
	if err != nil {
		return nil, false, err
	}
	return o, !known, nil
}

// ListCompany lists the named company on the named exchange. Both entities
// must already exist.
func (s *MarketService) ListCompany(company, exchange string, totalShares, unitPrice int64) error {
	c, ok := s.companies.Get(company)
	if !ok {
		return domain.ErrCompanyNotFound
	}
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return domain.ErrExchangeNotFound
	}
	return c.ListOn(e, totalShares, unitPrice)
}

// SetPolicy installs the described price policy on the named exchange. It
// takes effect for all subsequent trades.
func (s *MarketService) SetPolicy(exchange string, spec PolicySpec) error {
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return domain.ErrExchangeNotFound
	}

	policy, err := buildPolicy(spec)
	if err != nil {
		return err
	}
	return e.SetPolicy(policy)
}

func buildPolicy(spec PolicySpec) (domain.PricePolicy, error) {
	switch spec.Type {
	case PolicyUnchanged:
		return domain.Unchanged{}, nil
	case PolicyConstantIncrement:
		return domain.NewConstantIncrement(spec.Step)
	case PolicyConstantDecrement:
		return domain.NewConstantDecrement(spec.Step)
	case PolicyCombinedConstantStep:
		return domain.NewCombinedConstantStep(spec.Increment, spec.Decrement)
	default:
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("unknown policy type %q", spec.Type),
		}
	}
}

// GetListings returns the summary of every listing on the named exchange, in
// (exchange name, company name) order.
func (s *MarketService) GetListings(exchange string) ([]ListingInfo, error) {
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}

	listings := e.Listings()
	infos := make([]ListingInfo, len(listings))
	for i, l := range listings {
		infos[i] = listingInfo(l)
	}
	return infos, nil
}

// GetListing returns the detail view of one listing, including its holders
// ordered by operator name.
func (s *MarketService) GetListing(exchange, company string) (*ListingDetail, error) {
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}
	c, ok := s.companies.Get(company)
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	l, err := e.FindListing(c)
	if err != nil {
		return nil, err
	}

	holders := l.Holders()
	infos := make([]HolderInfo, len(holders))
	for i, h := range holders {
		infos[i] = HolderInfo{
			Operator: h.Operator.Name(),
			Quantity: h.Quantity,
		}
	}
	return &ListingDetail{
		ListingInfo: listingInfo(l),
		Holders:     infos,
	}, nil
}

func listingInfo(l *domain.Listing) ListingInfo {
	return ListingInfo{
		Exchange:        l.Exchange(),
		Company:         l.Company().Name(),
		TotalShares:     l.TotalShares(),
		AvailableShares: l.AvailableShares(),
		UnitPrice:       l.UnitPrice(),
	}
}
