// Package memory provides an in-process implementation of every repository port.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/utils/pagination"
)

// Store keeps all state in maps guarded by one RWMutex.
// WithinTx holds the write lock for the whole unit of work and restores a
// snapshot when fn fails, so a unit of work is serializable and atomic.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]domain.Account
	ledger      []domain.LedgerEntry // append-only
	rewards     map[string]domain.Reward
	listings    map[string]domain.Listing
	reviews     map[string]domain.Review
	fulfilments map[string]domain.RewardFulfilment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		rewards:     make(map[string]domain.Reward),
		listings:    make(map[string]domain.Listing),
		reviews:     make(map[string]domain.Review),
		fulfilments: make(map[string]domain.RewardFulfilment),
	}
}

// Provider returns a RepositoryProvider backed by this store.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    s,
		LedgerRepo:     s,
		RewardRepo:     s,
		ListingRepo:    s,
		ReviewRepo:     s,
		FulfilmentRepo: s,
		UnitOfWork:     s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.RewardRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ListingRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReviewReader            = (*Store)(nil)
	_ portsrepo.FulfilmentReader        = (*Store)(nil)
	_ portsrepo.UnitOfWork              = (*Store)(nil)
)

// =============================================================================
// UNIT OF WORK
// =============================================================================

type snapshot struct {
	accounts    map[string]domain.Account
	ledgerLen   int
	rewards     map[string]domain.Reward
	listings    map[string]domain.Listing
	reviews     map[string]domain.Review
	fulfilments map[string]domain.RewardFulfilment
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		accounts:    copyMap(s.accounts),
		ledgerLen:   len(s.ledger),
		rewards:     copyMap(s.rewards),
		listings:    copyMap(s.listings),
		reviews:     copyMap(s.reviews),
		fulfilments: copyMap(s.fulfilments),
	}
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.ledger = s.ledger[:snap.ledgerLen]
	s.rewards = snap.rewards
	s.listings = snap.listings
	s.reviews = snap.reviews
	s.fulfilments = snap.fulfilments
}

// WithinTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	view := &txView{store: s}
	tx := portsrepo.TxRepositories{
		Accounts:    view,
		Ledger:      view,
		Listings:    view,
		Reviews:     view,
		Fulfilments: view,
	}

	if err := fn(ctx, tx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// txView performs writes on the store while WithinTx holds the lock.
type txView struct {
	store *Store
}

var (
	_ portsrepo.AccountTxWriter  = (*txView)(nil)
	_ portsrepo.LedgerWriter     = (*txView)(nil)
	_ portsrepo.ListingTxWriter  = (*txView)(nil)
	_ portsrepo.ReviewWriter     = (*txView)(nil)
	_ portsrepo.FulfilmentWriter = (*txView)(nil)
)

func (v *txView) SaveAccount(_ context.Context, account domain.Account) error {
	s := v.store
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, a := range s.accounts {
		if a.Email == account.Email {
			return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		if account.ReferralCode != "" && a.ReferralCode == account.ReferralCode {
			return fmt.Errorf("%w: referral code collision", apperrors.ErrDuplicate)
		}
	}
	if account.PointsBalance < 0 {
		return fmt.Errorf("%w: negative balance", apperrors.ErrValidation)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (v *txView) UpdateAccountProfile(_ context.Context, account domain.Account) error {
	existing, ok := v.store.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Name = account.Name
	existing.Phone = account.Phone
	existing.Bio = account.Bio
	existing.LastUpdatedAt = account.LastUpdatedAt
	existing.LastUpdatedBy = account.LastUpdatedBy
	v.store.accounts[account.AccountID] = existing
	return nil
}

func (v *txView) MarkProfileCompleted(_ context.Context, accountID string, at time.Time) (bool, error) {
	existing, ok := v.store.accounts[accountID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if existing.ProfileCompletedAt != nil {
		return false, nil
	}
	t := at
	existing.ProfileCompletedAt = &t
	v.store.accounts[accountID] = existing
	return true, nil
}

func (v *txView) IncrementPointsBalance(_ context.Context, accountID string, delta int64, at time.Time) (int64, error) {
	existing, ok := v.store.accounts[accountID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	if existing.PointsBalance+delta < 0 {
		return 0, fmt.Errorf("%w: balance %d, delta %d", apperrors.ErrInsufficientPoints, existing.PointsBalance, delta)
	}
	existing.PointsBalance += delta
	existing.LastUpdatedAt = at
	v.store.accounts[accountID] = existing
	return existing.PointsBalance, nil
}

func (v *txView) AppendEntry(_ context.Context, entry domain.LedgerEntry) error {
	if _, ok := v.store.accounts[entry.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, entry.AccountID)
	}
	v.store.ledger = append(v.store.ledger, entry)
	return nil
}

func (v *txView) FindListingByIDForUpdate(_ context.Context, listingID string) (*domain.Listing, error) {
	l, ok := v.store.listings[listingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (v *txView) SetPriority(_ context.Context, listingID string, expiresAt *time.Time, userID string, now time.Time) error {
	l, ok := v.store.listings[listingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	l.IsPriority = true
	l.PriorityExpiresAt = expiresAt
	l.LastUpdatedAt = now
	l.LastUpdatedBy = userID
	v.store.listings[listingID] = l
	return nil
}

func (v *txView) SaveReview(_ context.Context, review domain.Review) error {
	for _, r := range v.store.reviews {
		if r.ListingID == review.ListingID && r.AuthorID == review.AuthorID {
			return fmt.Errorf("%w: listing already reviewed by this account", apperrors.ErrDuplicate)
		}
	}
	v.store.reviews[review.ReviewID] = review
	return nil
}

func (v *txView) SaveFulfilment(_ context.Context, f domain.RewardFulfilment) error {
	if _, ok := v.store.fulfilments[f.FulfilmentID]; ok {
		return fmt.Errorf("%w: fulfilment %s", apperrors.ErrDuplicate, f.FulfilmentID)
	}
	v.store.fulfilments[f.FulfilmentID] = f
	return nil
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindAccountByReferralCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ReferralCode == code {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// =============================================================================
// LEDGER
// =============================================================================

func (s *Store) ListEntriesByAccount(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range s.ledger {
		if e.AccountID != accountID {
			continue
		}
		if cursor != nil && !cursor.Before(e.CreatedAt, e.EntryID) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].EntryID > matched[j].EntryID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
	return page, &token, nil
}

func (s *Store) FindBalanceDrift(_ context.Context) ([]domain.BalanceDrift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]int64, len(s.accounts))
	for _, e := range s.ledger {
		sums[e.AccountID] += e.Points
	}
	var drifts []domain.BalanceDrift
	for id, a := range s.accounts {
		if sums[id] != a.PointsBalance {
			drifts = append(drifts, domain.BalanceDrift{AccountID: id, StoredBalance: a.PointsBalance, LedgerSum: sums[id]})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].AccountID < drifts[j].AccountID })
	return drifts, nil
}

// Entries returns a copy of the full ledger in append order.
func (s *Store) Entries() []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LedgerEntry(nil), s.ledger...)
}

// =============================================================================
// REWARDS
// =============================================================================

func (s *Store) FindRewardByID(_ context.Context, rewardID string) (*domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rewards[rewardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func sortRewards(rewards []domain.Reward) {
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].PointsCost == rewards[j].PointsCost {
			return rewards[i].Title < rewards[j].Title
		}
		return rewards[i].PointsCost < rewards[j].PointsCost
	})
}

func (s *Store) ListActiveRewardsForRole(_ context.Context, role domain.AccountRole) ([]domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Reward, 0)
	for _, r := range s.rewards {
		if r.IsActive && r.AvailableTo(role) {
			res = append(res, r)
		}
	}
	sortRewards(res)
	return res, nil
}

func (s *Store) ListAllRewards(_ context.Context) ([]domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Reward, 0, len(s.rewards))
	for _, r := range s.rewards {
		res = append(res, r)
	}
	sortRewards(res)
	return res, nil
}

func (s *Store) titleTakenLocked(title, exceptID string) bool {
	for id, r := range s.rewards {
		if id != exceptID && r.Title == title {
			return true
		}
	}
	return false
}

func (s *Store) SaveReward(_ context.Context, reward domain.Reward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rewards[reward.RewardID]; ok || s.titleTakenLocked(reward.Title, "") {
		return fmt.Errorf("%w: reward title %q", apperrors.ErrDuplicate, reward.Title)
	}
	s.rewards[reward.RewardID] = reward
	return nil
}

func (s *Store) UpdateReward(_ context.Context, reward domain.Reward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rewards[reward.RewardID]; !ok {
		return apperrors.ErrNotFound
	}
	if s.titleTakenLocked(reward.Title, reward.RewardID) {
		return fmt.Errorf("%w: reward title %q", apperrors.ErrDuplicate, reward.Title)
	}
	s.rewards[reward.RewardID] = reward
	return nil
}

func (s *Store) DeactivateReward(_ context.Context, rewardID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[rewardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.IsActive = false
	r.LastUpdatedAt = now
	r.LastUpdatedBy = userID
	s.rewards[rewardID] = r
	return nil
}

// =============================================================================
// LISTINGS, REVIEWS, FULFILMENTS
// =============================================================================

func (s *Store) FindListingByID(_ context.Context, listingID string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[listingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (s *Store) ListListingsByOwner(_ context.Context, ownerID string) ([]domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Listing, 0)
	for _, l := range s.listings {
		if l.OwnerID == ownerID {
			res = append(res, l)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) SaveListing(_ context.Context, listing domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listing.ListingID]; ok {
		return fmt.Errorf("%w: listing %s", apperrors.ErrDuplicate, listing.ListingID)
	}
	s.listings[listing.ListingID] = listing
	return nil
}

func (s *Store) ClearExpiredPriorities(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cleared int64
	for id, l := range s.listings {
		if l.IsPriority && l.PriorityExpiresAt != nil && l.PriorityExpiresAt.Before(now) {
			l.IsPriority = false
			l.PriorityExpiresAt = nil
			l.LastUpdatedAt = now
			l.LastUpdatedBy = "system"
			s.listings[id] = l
			cleared++
		}
	}
	return cleared, nil
}

func (s *Store) ListReviewsByListing(_ context.Context, listingID string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Review, 0)
	for _, r := range s.reviews {
		if r.ListingID == listingID {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ReviewID > res[j].ReviewID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *Store) ListFulfilmentsByAccount(_ context.Context, accountID string) ([]domain.RewardFulfilment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.RewardFulfilment, 0)
	for _, f := range s.fulfilments {
		if f.AccountID == accountID {
			res = append(res, f)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].FulfilmentID > res[j].FulfilmentID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}
