package blacklist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	blacklistRepo "github.com/citaplan/scheduling-service/internal/infra/storage/blacklist"
	"github.com/citaplan/scheduling-service/pkg/ptr"
)

type stubRepo struct {
	createErr   error
	entries     []domain.BlacklistEntry
	deactivated int64
	lastActive  bool
}

func (s *stubRepo) Create(_ context.Context, entry *domain.BlacklistEntry) (*domain.BlacklistEntry, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	clone := *entry
	clone.ID = 7
	return &clone, nil
}

func (s *stubRepo) Deactivate(_ context.Context, _, id int64) error {
	for _, e := range s.entries {
		if e.ID == id {
			s.deactivated = id
			return nil
		}
	}
	return blacklistRepo.ErrEntryNotFound
}

func (s *stubRepo) ListByCompany(_ context.Context, _ int64, activeOnly bool) ([]domain.BlacklistEntry, error) {
	s.lastActive = activeOnly
	return s.entries, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestAddRequiresContact(t *testing.T) {
	svc := NewService(&stubRepo{}, passthroughTx{}, noopLogger{})

	_, err := svc.Add(context.Background(), 1, nil, nil, nil)
	assert.ErrorIs(t, err, ErrContactRequired)

	_, err = svc.Add(context.Background(), 1, ptr.Ptr(""), ptr.Ptr(""), nil)
	assert.ErrorIs(t, err, ErrContactRequired)

	entry, err := svc.Add(context.Background(), 1, ptr.Ptr("+34600111222"), nil, ptr.Ptr("impagos"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.ID)
	assert.True(t, entry.Active)
}

func TestAddMapsDuplicate(t *testing.T) {
	repo := &stubRepo{createErr: blacklistRepo.ErrDuplicateContact}
	svc := NewService(repo, passthroughTx{}, noopLogger{})

	_, err := svc.Add(context.Background(), 1, ptr.Ptr("+34600111222"), nil, nil)
	assert.ErrorIs(t, err, ErrDuplicateContact)
}

func TestRemoveDeactivates(t *testing.T) {
	repo := &stubRepo{entries: []domain.BlacklistEntry{{ID: 5, CompanyID: 1, Active: true}}}
	svc := NewService(repo, passthroughTx{}, noopLogger{})

	require.NoError(t, svc.Remove(context.Background(), 1, 5))
	assert.Equal(t, int64(5), repo.deactivated)

	assert.ErrorIs(t, svc.Remove(context.Background(), 1, 99), ErrEntryNotFound)
}

func TestListPassesActiveOnly(t *testing.T) {
	repo := &stubRepo{entries: []domain.BlacklistEntry{{ID: 5}}}
	svc := NewService(repo, passthroughTx{}, noopLogger{})

	entries, err := svc.List(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, repo.lastActive)
}
