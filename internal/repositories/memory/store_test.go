package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveAccount(t *testing.T, s *Store, id, email, code string) {
	t.Helper()
	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts.SaveAccount(ctx, domain.Account{AccountID: id, Email: email, ReferralCode: code, Role: domain.RoleTenant})
	})
	require.NoError(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	saveAccount(t, s, "a", "a@x.io", "C1")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := tx.Accounts.IncrementPointsBalance(ctx, "a", 10, time.Now()); err != nil {
			return err
		}
		if err := tx.Ledger.AppendEntry(ctx, domain.LedgerEntry{EntryID: "e1", AccountID: "a", Points: 10}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	acc, err := s.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, acc.PointsBalance)
	assert.Empty(t, s.Entries())
}

func TestWithinTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewStore().WithinTx(ctx, func(context.Context, portsrepo.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestIncrementPointsBalance_NeverNegative(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	saveAccount(t, s, "a", "a@x.io", "C1")

	err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		bal, err := tx.Accounts.IncrementPointsBalance(ctx, "a", 5, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(5), bal)

		_, err = tx.Accounts.IncrementPointsBalance(ctx, "a", -6, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)

		bal, err = tx.Accounts.IncrementPointsBalance(ctx, "a", -5, time.Now())
		require.NoError(t, err)
		assert.Zero(t, bal)

		_, err = tx.Accounts.IncrementPointsBalance(ctx, "missing", 1, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestSaveAccount_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	saveAccount(t, s, "a", "a@x.io", "C1")

	for name, acc := range map[string]domain.Account{
		"same id":    {AccountID: "a", Email: "other@x.io", ReferralCode: "C2"},
		"same email": {AccountID: "b", Email: "a@x.io", ReferralCode: "C3"},
		"same code":  {AccountID: "c", Email: "c@x.io", ReferralCode: "C1"},
	} {
		t.Run(name, func(t *testing.T) {
			err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
				return tx.Accounts.SaveAccount(ctx, acc)
			})
			assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		})
	}
}

func TestRewards_TitleUniqueAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveReward(ctx, domain.Reward{RewardID: "1", Title: "B", PointsCost: 20, Role: domain.RewardRoleAll, IsActive: true}))
	require.NoError(t, s.SaveReward(ctx, domain.Reward{RewardID: "2", Title: "A", PointsCost: 20, Role: domain.RewardRoleTenant, IsActive: true}))
	require.NoError(t, s.SaveReward(ctx, domain.Reward{RewardID: "3", Title: "C", PointsCost: 5, Role: domain.RewardRoleLandlord, IsActive: true}))

	assert.ErrorIs(t, s.SaveReward(ctx, domain.Reward{RewardID: "4", Title: "A"}), apperrors.ErrDuplicate)
	assert.ErrorIs(t, s.UpdateReward(ctx, domain.Reward{RewardID: "1", Title: "A"}), apperrors.ErrDuplicate)
	assert.ErrorIs(t, s.UpdateReward(ctx, domain.Reward{RewardID: "9", Title: "Z"}), apperrors.ErrNotFound)

	tenant, err := s.ListActiveRewardsForRole(ctx, domain.RoleTenant)
	require.NoError(t, err)
	require.Len(t, tenant, 2)
	assert.Equal(t, "A", tenant[0].Title)
	assert.Equal(t, "B", tenant[1].Title)

	all, err := s.ListAllRewards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", all[0].Title)
}
