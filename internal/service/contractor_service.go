package service

import (
	"context"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
)

// ContractorService handles business logic for contractors.
type ContractorService struct {
	contractorRepo *repository.ContractorRepository
}

// NewContractorService creates a new ContractorService.
func NewContractorService(contractorRepo *repository.ContractorRepository) *ContractorService {
	return &ContractorService{contractorRepo: contractorRepo}
}

// ListContractors retrieves all contractors ordered by name.
func (s *ContractorService) ListContractors(ctx context.Context) ([]model.Contractor, error) {
	return s.contractorRepo.List(ctx)
}

// GetContractorByID retrieves a contractor.
func (s *ContractorService) GetContractorByID(ctx context.Context, id int) (*model.Contractor, error) {
	return s.contractorRepo.GetByID(ctx, id)
}

// CreateContractor registers a new contractor.
func (s *ContractorService) CreateContractor(ctx context.Context, c *model.Contractor) error {
	return s.contractorRepo.Create(ctx, c)
}

// UpdateContractor updates a contractor's details.
func (s *ContractorService) UpdateContractor(ctx context.Context, c *model.Contractor) error {
	return s.contractorRepo.Update(ctx, c)
}

// DeleteContractor removes a contractor. Deletion fails at the database
// level while invoices still reference the contractor.
func (s *ContractorService) DeleteContractor(ctx context.Context, id int) error {
	return s.contractorRepo.Delete(ctx, id)
}
