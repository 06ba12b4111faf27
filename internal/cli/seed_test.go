package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewards.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRewardCatalog_RepoFile(t *testing.T) {
	reqs, err := loadRewardCatalog(filepath.Join("..", "..", "rewards.toml"))
	require.NoError(t, err)
	require.NotEmpty(t, reqs)

	for _, r := range reqs {
		assert.NotEmpty(t, r.Title)
		assert.Positive(t, r.PointsCost)
		assert.Contains(t, domain.RewardTypes, r.Type)
	}
}

func TestLoadRewardCatalog(t *testing.T) {
	path := writeCatalog(t, `
[[reward]]
title         = "Boost"
description   = "Priority for a week"
points_cost   = 100
type          = "LISTING_PRIORITY"
role          = "landlord"
duration_days = 7

[[reward]]
title       = "Cashback"
description = "Money back"
points_cost = 500
type        = "CASHBACK"
role        = "all"
cash_value  = "25.00"
`)

	reqs, err := loadRewardCatalog(path)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, domain.RewardListingPriority, reqs[0].Type)
	assert.Equal(t, domain.RewardRoleLandlord, reqs[0].Role)
	require.NotNil(t, reqs[0].DurationDays)
	assert.Equal(t, 7, *reqs[0].DurationDays)
	assert.Nil(t, reqs[0].CashValue)

	require.NotNil(t, reqs[1].CashValue)
	assert.True(t, decimal.RequireFromString("25").Equal(*reqs[1].CashValue))
	assert.Nil(t, reqs[1].DurationDays)
}

func TestLoadRewardCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad cash value", "[[reward]]\ntitle = \"x\"\ncash_value = \"lots\"\n"},
		{"unknown key", "[[reward]]\ntitle = \"x\"\npoints = 5\n"},
		{"not toml", "[[reward\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadRewardCatalog(writeCatalog(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := loadRewardCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
