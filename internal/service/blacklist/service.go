package blacklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/citaplan/scheduling-service/internal/domain"
	blacklistRepo "github.com/citaplan/scheduling-service/internal/infra/storage/blacklist"
)

// Service manages company blacklists. Entries are deactivated, never
// deleted, so a lifted block stays visible in the history.
type Service struct {
	blacklistRepo BlacklistRepository
	txManager     TransactionManager
	logger        Logger
}

// NewService creates the blacklist service.
func NewService(blacklistRepo BlacklistRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		blacklistRepo: blacklistRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Add blocks a contact for the company. At least one of phone or email must
// be set; an active duplicate is rejected.
func (s *Service) Add(ctx context.Context, companyID int64, phone, email, reason *string) (*domain.BlacklistEntry, error) {
	hasPhone := phone != nil && *phone != ""
	hasEmail := email != nil && *email != ""
	if !hasPhone && !hasEmail {
		return nil, ErrContactRequired
	}

	entry := &domain.BlacklistEntry{
		CompanyID: companyID,
		Phone:     phone,
		Email:     email,
		Reason:    reason,
		Active:    true,
	}

	var created *domain.BlacklistEntry
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		result, err := s.blacklistRepo.Create(txCtx, entry)
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		if errors.Is(err, blacklistRepo.ErrDuplicateContact) {
			s.logger.Warn("Add: duplicate blacklist contact for company=%d", companyID)
			return nil, ErrDuplicateContact
		}
		s.logger.Error("Add: create failed for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: Add - create failed: %v", ErrInternal, err)
	}

	s.logger.Info("Add: company=%d blacklisted entry id=%d", companyID, created.ID)
	return created, nil
}

// Remove lifts a block by deactivating the entry.
func (s *Service) Remove(ctx context.Context, companyID, id int64) error {
	err := s.blacklistRepo.Deactivate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, blacklistRepo.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("Remove: deactivate failed for entry=%d: %v", id, err)
		return fmt.Errorf("%w: Remove - deactivate failed: %v", ErrInternal, err)
	}

	s.logger.Info("Remove: company=%d lifted blacklist entry id=%d", companyID, id)
	return nil
}

// List returns the company's entries, optionally only active ones.
func (s *Service) List(ctx context.Context, companyID int64, activeOnly bool) ([]domain.BlacklistEntry, error) {
	entries, err := s.blacklistRepo.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}
