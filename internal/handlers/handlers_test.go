package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/core/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/handlers"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/SscSPs/propnest_backend/internal/repositories/memory"
	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "propnest-test",
		LoginRateLimit:    "1000-M",
		RedeemRateLimit:   "1000-M",
		MetricsEnabled:    true,
	}
}

func newRouter(cfg *config.Config, container *portssvc.ServiceContainer) (*gin.Engine, error) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return nil, err
	}
	return r, nil
}

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	cfg    *config.Config
	store  *memory.Store
	router *gin.Engine
	admin  domain.Account
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.cfg = testConfig()
	s.store = memory.NewStore()
	container, err := services.NewServiceContainer(s.cfg, s.store.Provider(), nil)
	s.Require().NoError(err)
	s.router, err = newRouter(s.cfg, container)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.admin = domain.Account{
		AccountID:    uuid.NewString(),
		Email:        "admin@propnest.test",
		Role:         domain.RoleLandlord,
		IsAdmin:      true,
		ReferralCode: "PN-ADMIN",
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	err = s.store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts.SaveAccount(ctx, s.admin)
	})
	s.Require().NoError(err)
}

// generateTestToken signs a token the way the auth service does.
func (s *HandlerTestSuite) generateTestToken(a domain.Account) string {
	token, err := utils.GenerateJWT(a.AccountID, string(a.Role), a.IsAdmin, testJWTSecret, time.Hour, "propnest-test")
	s.Require().NoError(err)
	return token
}

func (s *HandlerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *HandlerTestSuite) message(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	s.decode(w, &body)
	return body.Message
}

// register creates an account through the API and returns its token and details.
func (s *HandlerTestSuite) register(role domain.AccountRole, referral *string) (string, dto.AccountResponse) {
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:        uuid.NewString()[:8] + "@propnest.test",
		Password:     "correct-horse",
		Name:         "Test " + string(role),
		Role:         role,
		ReferralCode: referral,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.LoginResponse
	s.decode(w, &res)
	return res.Token, res.Account
}

func (s *HandlerTestSuite) grant(accountID string, amount int64) {
	w := s.do(http.MethodPost, "/api/v1/admin/points/grant", s.generateTestToken(s.admin), dto.GrantPointsRequest{
		AccountID: accountID,
		ReasonKey: string(domain.ReasonAdminGrant),
		Amount:    &amount,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) createReward(title string, cost int64, t domain.RewardType, role domain.RewardRole) dto.RewardResponse {
	w := s.do(http.MethodPost, "/api/v1/admin/rewards", s.generateTestToken(s.admin), dto.CreateRewardRequest{
		Title:       title,
		Description: title + " description",
		PointsCost:  cost,
		Type:        t,
		Role:        role,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.RewardResponse
	s.decode(w, &res)
	return res
}

func (s *HandlerTestSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "go_goroutines")
}

func (s *HandlerTestSuite) TestAuthRequired() {
	w := s.do(http.MethodGet, "/api/v1/rewards", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.NotEmpty(s.message(w))

	w = s.do(http.MethodGet, "/api/v1/rewards", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestRegisterLoginAndReferral() {
	_, referrer := s.register(domain.RoleLandlord, nil)

	_, referred := s.register(domain.RoleTenant, &referrer.ReferralCode)
	s.Equal(int64(0), referred.PointsBalance)

	acc, err := s.store.FindAccountByID(context.Background(), referrer.AccountID)
	s.Require().NoError(err)
	s.Equal(int64(50), acc.PointsBalance)

	bad := "PN-NOPE-NOPE"
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email: "x@propnest.test", Password: "correct-horse", Name: "X", Role: domain.RoleTenant, ReferralCode: &bad,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: referred.Email, Password: "correct-horse"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	s.decode(w, &login)
	s.NotEmpty(login.Token)

	w = s.do(http.MethodGet, "/api/v1/accounts/me", login.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.AccountResponse
	s.decode(w, &me)
	s.Equal(referred.AccountID, me.AccountID)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: referred.Email, Password: "wrong-password"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestUpdateProfileAwardsOnce() {
	token, _ := s.register(domain.RoleTenant, nil)
	phone, bio := "+44 20 7946 0000", "Quiet tenant"

	w := s.do(http.MethodPut, "/api/v1/accounts/me", token, dto.UpdateProfileRequest{Phone: &phone, Bio: &bio})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var acc dto.AccountResponse
	s.decode(w, &acc)
	s.Equal(int64(20), acc.PointsBalance)
	s.NotNil(acc.ProfileCompletedAt)

	bio = "Still quiet"
	w = s.do(http.MethodPut, "/api/v1/accounts/me", token, dto.UpdateProfileRequest{Bio: &bio})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &acc)
	s.Equal(int64(20), acc.PointsBalance)
}

func (s *HandlerTestSuite) TestRedeemListingPriority() {
	token, landlord := s.register(domain.RoleLandlord, nil)
	reward := s.createReward("Boost 7d", 60, domain.RewardListingPriority, domain.RewardRoleLandlord)

	w := s.do(http.MethodPost, "/api/v1/listings", token, dto.CreateListingRequest{Title: "Flat", Address: "1 High St", MonthlyRent: 1200})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var listing dto.ListingResponse
	s.decode(w, &listing)

	// Not enough points yet.
	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", token, dto.RedeemRequest{RewardID: reward.RewardID, ListingID: &listing.ListingID})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.message(w), "insufficient")

	s.grant(landlord.AccountID, 100)

	// LISTING_PRIORITY without a listing.
	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", token, dto.RedeemRequest{RewardID: reward.RewardID})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", token, dto.RedeemRequest{RewardID: reward.RewardID, ListingID: &listing.ListingID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res domain.RedeemResult
	s.decode(w, &res)
	s.Equal(int64(40), res.NewPointsTotal)
	s.Equal(listing.ListingID, res.ReferenceID)
	s.NotEmpty(res.Message)

	w = s.do(http.MethodGet, "/api/v1/listings/"+listing.ListingID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &listing)
	s.True(listing.IsPriority)

	s.grant(landlord.AccountID, 100)
	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", token, dto.RedeemRequest{RewardID: reward.RewardID, ListingID: &listing.ListingID})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/points?limit=2", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var summary dto.PointsSummaryResponse
	s.decode(w, &summary)
	s.Equal(int64(140), summary.PointsBalance)
	s.Require().Len(summary.Entries, 2)
	s.Require().NotNil(summary.NextToken)

	w = s.do(http.MethodGet, "/api/v1/points?limit=2&nextToken="+*summary.NextToken, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &summary)
	s.Require().Len(summary.Entries, 1)
	s.Equal(int64(100), summary.Entries[0].Points)
	s.Nil(summary.NextToken)
}

func (s *HandlerTestSuite) TestRedeemRejections() {
	tenantToken, tenant := s.register(domain.RoleTenant, nil)
	landlordOnly := s.createReward("Landlord perk", 10, domain.RewardOther, domain.RewardRoleLandlord)
	s.grant(tenant.AccountID, 100)

	w := s.do(http.MethodPost, "/api/v1/rewards/redeem", tenantToken, dto.RedeemRequest{RewardID: landlordOnly.RewardID})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", tenantToken, dto.RedeemRequest{RewardID: uuid.NewString()})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/rewards/redeem", tenantToken, map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/rewards", tenantToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListRewardsResponse
	s.decode(w, &list)
	s.Empty(list.Rewards)

	w = s.do(http.MethodGet, "/api/v1/points", tenantToken, nil)
	var summary dto.PointsSummaryResponse
	s.decode(w, &summary)
	s.Equal(int64(100), summary.PointsBalance)
	s.Len(summary.Entries, 1)
}

func (s *HandlerTestSuite) TestCashbackCreatesFulfilment() {
	token, tenant := s.register(domain.RoleTenant, nil)
	reward := s.createReward("Cashback", 30, domain.RewardCashback, domain.RewardRoleAll)
	s.grant(tenant.AccountID, 30)

	w := s.do(http.MethodPost, "/api/v1/rewards/redeem", token, dto.RedeemRequest{RewardID: reward.RewardID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res domain.RedeemResult
	s.decode(w, &res)
	s.Zero(res.NewPointsTotal)

	w = s.do(http.MethodGet, "/api/v1/rewards/fulfilments", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var fs dto.ListFulfilmentsResponse
	s.decode(w, &fs)
	s.Require().Len(fs.Fulfilments, 1)
	s.Equal(res.ReferenceID, fs.Fulfilments[0].FulfilmentID)
	s.Equal(domain.FulfilmentPending, fs.Fulfilments[0].Status)
}

func (s *HandlerTestSuite) TestAdminRewardCRUD() {
	tenantToken, _ := s.register(domain.RoleTenant, nil)
	adminToken := s.generateTestToken(s.admin)

	w := s.do(http.MethodGet, "/api/v1/admin/rewards", tenantToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	reward := s.createReward("Voucher", 25, domain.RewardDiscountVoucher, domain.RewardRoleAll)
	s.True(reward.IsActive)

	w = s.do(http.MethodPost, "/api/v1/admin/rewards", adminToken, dto.CreateRewardRequest{
		Title: "Voucher", Description: "dup", PointsCost: 5, Type: domain.RewardOther, Role: domain.RewardRoleAll,
	})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/rewards", adminToken, map[string]any{
		"title": "Bad", "description": "bad", "pointsCost": 5, "type": "TELEPORT", "role": "all",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	newCost := int64(30)
	w = s.do(http.MethodPut, "/api/v1/admin/rewards/"+reward.RewardID, adminToken, dto.UpdateRewardRequest{PointsCost: &newCost})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.RewardResponse
	s.decode(w, &updated)
	s.Equal(newCost, updated.PointsCost)
	s.Equal("Voucher", updated.Title)

	w = s.do(http.MethodGet, "/api/v1/rewards", tenantToken, nil)
	var list dto.ListRewardsResponse
	s.decode(w, &list)
	s.Len(list.Rewards, 1)

	w = s.do(http.MethodDelete, "/api/v1/admin/rewards/"+reward.RewardID, adminToken, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/rewards", tenantToken, nil)
	s.decode(w, &list)
	s.Empty(list.Rewards)

	w = s.do(http.MethodGet, "/api/v1/admin/rewards/"+reward.RewardID, adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.False(updated.IsActive)

	w = s.do(http.MethodDelete, "/api/v1/admin/rewards/"+uuid.NewString(), adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestAdminGrantAndReconcile() {
	adminToken := s.generateTestToken(s.admin)
	_, tenant := s.register(domain.RoleTenant, nil)

	w := s.do(http.MethodPost, "/api/v1/admin/points/grant", adminToken, dto.GrantPointsRequest{AccountID: tenant.AccountID, ReasonKey: "NOT_A_REASON"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/points/grant", adminToken, dto.GrantPointsRequest{AccountID: tenant.AccountID, ReasonKey: string(domain.ReasonAdminGrant)})
	s.Equal(http.StatusBadRequest, w.Code, "ADMIN_GRANT needs an amount")

	w = s.do(http.MethodPost, "/api/v1/admin/points/grant", adminToken, dto.GrantPointsRequest{AccountID: uuid.NewString(), ReasonKey: string(domain.ReasonCompleteProfile)})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/points/grant", adminToken, dto.GrantPointsRequest{AccountID: tenant.AccountID, ReasonKey: string(domain.ReasonCompleteProfile)})
	s.Require().Equal(http.StatusOK, w.Code)
	var granted dto.GrantPointsResponse
	s.decode(w, &granted)
	s.Equal(int64(20), granted.NewPointsTotal)

	w = s.do(http.MethodGet, "/api/v1/admin/points/reconcile", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var rec dto.ReconcileResponse
	s.decode(w, &rec)
	s.Empty(rec.Drifts)
}

func (s *HandlerTestSuite) TestReviews() {
	landlordToken, _ := s.register(domain.RoleLandlord, nil)
	tenantToken, _ := s.register(domain.RoleTenant, nil)

	w := s.do(http.MethodPost, "/api/v1/listings", landlordToken, dto.CreateListingRequest{Title: "House", Address: "3 Low Rd", MonthlyRent: 2000})
	s.Require().Equal(http.StatusCreated, w.Code)
	var listing dto.ListingResponse
	s.decode(w, &listing)
	reviewPath := fmt.Sprintf("/api/v1/listings/%s/reviews", listing.ListingID)

	w = s.do(http.MethodPost, reviewPath, tenantToken, dto.CreateReviewRequest{Rating: 4, Comment: "Nice"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var review dto.ReviewResponse
	s.decode(w, &review)
	s.Equal(int64(10), review.NewPointsTotal)

	w = s.do(http.MethodPost, reviewPath, tenantToken, dto.CreateReviewRequest{Rating: 5})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, reviewPath, landlordToken, dto.CreateReviewRequest{Rating: 5})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, reviewPath, tenantToken, dto.CreateReviewRequest{Rating: 9})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, reviewPath, tenantToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var reviews dto.ListReviewsResponse
	s.decode(w, &reviews)
	s.Len(reviews.Reviews, 1)

	w = s.do(http.MethodGet, "/api/v1/listings/mine", landlordToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var mine dto.ListListingsResponse
	s.decode(w, &mine)
	s.Len(mine.Listings, 1)
}
