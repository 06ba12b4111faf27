package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/SscSPs/propnest_backend/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// It fails when the reward effect table does not cover every reward type.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, posthog *utils.PosthogClientWrapper) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	container.Notifier = NewNotifier(posthog)

	// Points first since every crediting service depends on it
	container.Points = NewPointsService(repos.UnitOfWork, repos.AccountRepo, repos.LedgerRepo)

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.UnitOfWork,
		container.Points,
		WithAccountNotifier(container.Notifier),
	)
	container.Auth = NewAuthService(cfg, repos.AccountRepo)
	container.Listing = NewListingService(repos.ListingRepo, repos.ReviewRepo, repos.UnitOfWork, container.Points)

	reward, err := NewRewardService(
		repos.RewardRepo,
		repos.AccountRepo,
		repos.FulfilmentRepo,
		repos.UnitOfWork,
		container.Points,
		WithRewardNotifier(container.Notifier),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reward service: %w", err)
	}
	container.Reward = reward

	return container, nil
}
