package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/acmedash/invoice-api/internal/models"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
)

type customerRepository interface {
	List(ctx context.Context) ([]models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	Summaries(ctx context.Context, filter models.CustomerFilter) ([]models.CustomerSummary, error)
}

// CustomerService serves customer listings for forms and the customers table.
type CustomerService struct {
	repo   customerRepository
	logger *zap.Logger
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(repo customerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{repo: repo, logger: logger}
}

// List returns all customers, for the invoice form's customer select.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list customers")
	}
	return customers, nil
}

// Get returns a customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "customer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load customer")
	}
	return customer, nil
}

// Table returns customers with invoice aggregates, optionally filtered.
func (s *CustomerService) Table(ctx context.Context, query string) ([]models.CustomerSummary, error) {
	filter := models.CustomerFilter{Query: strings.TrimSpace(query)}
	summaries, err := s.repo.Summaries(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load customers table")
	}
	return summaries, nil
}
