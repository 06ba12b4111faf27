package pgsql

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgErrCode(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation}
	assert.Equal(t, pgUniqueViolation, pgErrCode(unique))
	assert.Equal(t, pgCheckViolation, pgErrCode(fmt.Errorf("increment: %w", &pgconn.PgError{Code: pgCheckViolation})))
	assert.Empty(t, pgErrCode(errors.New("boom")))
	assert.Empty(t, pgErrCode(nil))
}

func TestRewardMapping(t *testing.T) {
	days := 7
	cash := decimal.RequireFromString("25.50")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	in := domain.Reward{
		RewardID:     "r-1",
		Title:        "Cashback",
		Description:  "Money back",
		PointsCost:   500,
		Type:         domain.RewardCashback,
		Role:         domain.RewardRoleTenant,
		DurationDays: &days,
		CashValue:    &cash,
		IsActive:     true,
		AuditFields:  domain.AuditFields{CreatedAt: now, CreatedBy: "admin", LastUpdatedAt: now, LastUpdatedBy: "admin"},
	}

	m := toModelReward(in)
	require.NotNil(t, m.DurationDays)
	assert.Equal(t, int32(7), *m.DurationDays)
	assert.True(t, m.CashValue.Valid)

	out := toDomainReward(m)
	require.NotNil(t, out.CashValue)
	assert.True(t, cash.Equal(*out.CashValue))
	require.NotNil(t, out.DurationDays)
	assert.Equal(t, days, *out.DurationDays)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.Role, out.Role)

	in.CashValue, in.DurationDays = nil, nil
	out = toDomainReward(toModelReward(in))
	assert.Nil(t, out.CashValue)
	assert.Nil(t, out.DurationDays)
}
