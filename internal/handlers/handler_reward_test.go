package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock Reward Service ---
type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) ListAvailableRewards(ctx context.Context, role domain.AccountRole) ([]domain.Reward, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

func (m *MockRewardService) Redeem(ctx context.Context, accountID string, rewardID string, rc domain.RedeemContext) (*domain.RedeemResult, error) {
	args := m.Called(ctx, accountID, rewardID, rc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemResult), args.Error(1)
}

func (m *MockRewardService) ListFulfilments(ctx context.Context, accountID string) ([]domain.RewardFulfilment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RewardFulfilment), args.Error(1)
}

func (m *MockRewardService) CreateReward(ctx context.Context, req dto.CreateRewardRequest, adminID string) (*domain.Reward, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reward), args.Error(1)
}

func (m *MockRewardService) UpdateReward(ctx context.Context, rewardID string, req dto.UpdateRewardRequest, adminID string) (*domain.Reward, error) {
	args := m.Called(ctx, rewardID, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reward), args.Error(1)
}

func (m *MockRewardService) DeactivateReward(ctx context.Context, rewardID string, adminID string) error {
	args := m.Called(ctx, rewardID, adminID)
	return args.Error(0)
}

func (m *MockRewardService) GetReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	args := m.Called(ctx, rewardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reward), args.Error(1)
}

func (m *MockRewardService) ListAllRewards(ctx context.Context) ([]domain.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

var _ portssvc.RewardSvcFacade = (*MockRewardService)(nil)

func TestRedeem_ErrorMapping(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateJWT("acc-1", string(domain.RoleLandlord), false, cfg.JWTSecret, time.Hour, cfg.JWTIssuer)
	require.NoError(t, err)

	tests := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "ledger write failure hides cause",
			serviceErr:  fmt.Errorf("%w: %w", apperrors.ErrLedgerWriteFailure, errors.New("connection reset by peer")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to redeem reward",
		},
		{
			name:        "unexpected error hides cause",
			serviceErr:  errors.New("pq: relation does not exist"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to redeem reward",
		},
		{
			name:        "listing not owned",
			serviceErr:  apperrors.ErrListingNotOwned,
			wantStatus:  http.StatusBadRequest,
			wantMessage: apperrors.ErrListingNotOwned.Error(),
		},
		{
			name:        "already priority",
			serviceErr:  apperrors.ErrAlreadyPriority,
			wantStatus:  http.StatusConflict,
			wantMessage: apperrors.ErrAlreadyPriority.Error(),
		},
		{
			name:        "unsupported reward type",
			serviceErr:  fmt.Errorf("%w: TELEPORT", apperrors.ErrUnsupportedRewardType),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "unsupported reward type: TELEPORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewards := new(MockRewardService)
			listingID := "listing-1"
			rewards.On("Redeem", mock.Anything, "acc-1", "reward-1", domain.RedeemContext{ListingID: &listingID}).
				Return(nil, tt.serviceErr).Once()

			router, err := newRouter(cfg, &portssvc.ServiceContainer{Reward: rewards})
			require.NoError(t, err)

			body := `{"rewardId":"reward-1","listingId":"listing-1"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/redeem", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.wantMessage), w.Body.String())
			assert.NotContains(t, w.Body.String(), "connection reset")
			rewards.AssertExpectations(t)
		})
	}
}

func TestRedeem_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RedeemRateLimit = "1-M"
	token, err := utils.GenerateJWT("acc-1", string(domain.RoleTenant), false, cfg.JWTSecret, time.Hour, cfg.JWTIssuer)
	require.NoError(t, err)

	rewards := new(MockRewardService)
	rewards.On("Redeem", mock.Anything, "acc-1", "reward-1", domain.RedeemContext{}).
		Return(&domain.RedeemResult{Message: "ok", NewPointsTotal: 5, ReferenceID: "f-1"}, nil).Once()

	router, err := newRouter(cfg, &portssvc.ServiceContainer{Reward: rewards})
	require.NoError(t, err)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/redeem", strings.NewReader(`{"rewardId":"reward-1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"message":"ok","newPointsTotal":5,"referenceId":"f-1"}`, first.Body.String())

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	rewards.AssertExpectations(t)
}

func TestRegisterRoutes_InvalidRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = "lots"
	_, err := newRouter(cfg, &portssvc.ServiceContainer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login rate limit")
}
