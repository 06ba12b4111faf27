package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one second on every read so ledger ordering is deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, accountID string, event string, props map[string]any) {
	m.Called(ctx, accountID, event, props)
}

// failingLedgerUoW wraps a unit of work and makes every ledger append fail.
type failingLedgerUoW struct {
	inner portsrepo.UnitOfWork
	err   error
}

type failingLedger struct {
	err error
}

func (f failingLedger) AppendEntry(context.Context, domain.LedgerEntry) error {
	return f.err
}

func (u *failingLedgerUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		tx.Ledger = failingLedger{err: u.err}
		return fn(ctx, tx)
	})
}

// failingCommitUoW runs fn and then reports a commit failure, discarding the work.
type failingCommitUoW struct {
	inner portsrepo.UnitOfWork
}

var errCommit = errors.New("connection reset during commit")

func (u *failingCommitUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	err := u.inner.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errCommit // roll back to mimic a failed commit
	})
	return err
}

func seedAccount(t *testing.T, store *memory.Store, role domain.AccountRole) domain.Account {
	t.Helper()
	id := uuid.NewString()
	acc := domain.Account{
		AccountID:    id,
		Email:        id + "@example.com",
		Name:         "Test " + string(role),
		PasswordHash: "x",
		Role:         role,
		ReferralCode: "PN-" + id[:8],
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
			CreatedBy: id,
		},
	}
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts.SaveAccount(ctx, acc)
	})
	require.NoError(t, err)
	return acc
}

func seedReward(t *testing.T, store *memory.Store, title string, cost int64, typ domain.RewardType, role domain.RewardRole) domain.Reward {
	t.Helper()
	r := domain.Reward{
		RewardID:    uuid.NewString(),
		Title:       title,
		Description: title + " description",
		PointsCost:  cost,
		Type:        typ,
		Role:        role,
		IsActive:    true,
	}
	require.NoError(t, store.SaveReward(context.Background(), r))
	return r
}

func seedListing(t *testing.T, store *memory.Store, ownerID string) domain.Listing {
	t.Helper()
	l := domain.Listing{
		ListingID:   uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "Two bed flat",
		Address:     "1 High Street",
		MonthlyRent: 1200,
		AuditFields: domain.AuditFields{CreatedAt: time.Now().UTC(), CreatedBy: ownerID},
	}
	require.NoError(t, store.SaveListing(context.Background(), l))
	return l
}

func balanceOf(t *testing.T, store *memory.Store, accountID string) int64 {
	t.Helper()
	acc, err := store.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.PointsBalance
}

func entriesFor(store *memory.Store, accountID string) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range store.Entries() {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
