package cli

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// seedActor is recorded as created_by for catalog entries loaded from file.
const seedActor = "system"

func init() {
	rootCmd.AddCommand(seedRewardsCmd)
	seedRewardsCmd.Flags().StringP("file", "f", "rewards.toml", "Reward catalog in TOML")
}

type rewardCatalogFile struct {
	Rewards []rewardCatalogEntry `toml:"reward"`
}

type rewardCatalogEntry struct {
	Title        string `toml:"title"`
	Description  string `toml:"description"`
	PointsCost   int64  `toml:"points_cost"`
	Type         string `toml:"type"`
	Role         string `toml:"role"`
	DurationDays *int   `toml:"duration_days"`
	CashValue    string `toml:"cash_value"`
}

// loadRewardCatalog decodes path into create requests. Unknown keys are rejected.
func loadRewardCatalog(path string) ([]dto.CreateRewardRequest, error) {
	var file rewardCatalogFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("read reward catalog %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("reward catalog %s: unknown key %q", path, undecoded[0].String())
	}

	reqs := make([]dto.CreateRewardRequest, 0, len(file.Rewards))
	for i, e := range file.Rewards {
		req := dto.CreateRewardRequest{
			Title:        e.Title,
			Description:  e.Description,
			PointsCost:   e.PointsCost,
			Type:         domain.RewardType(e.Type),
			Role:         domain.RewardRole(e.Role),
			DurationDays: e.DurationDays,
		}
		if e.CashValue != "" {
			v, err := decimal.NewFromString(e.CashValue)
			if err != nil {
				return nil, fmt.Errorf("reward %d (%q): invalid cash_value %q: %w", i+1, e.Title, e.CashValue, err)
			}
			req.CashValue = &v
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

var seedRewardsCmd = &cobra.Command{
	Use:   "seed-rewards",
	Short: "Create catalog rewards from a TOML file",
	Long:  `Creates every reward in the file whose title is not already in the catalog.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		reqs, err := loadRewardCatalog(path)
		if err != nil {
			return err
		}

		a, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		existing, err := a.services.Reward.ListAllRewards(ctx)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existing))
		for _, r := range existing {
			taken[r.Title] = true
		}

		created := 0
		for _, req := range reqs {
			if taken[req.Title] {
				slog.Info("Reward already exists, skipping", slog.String("title", req.Title))
				continue
			}
			reward, err := a.services.Reward.CreateReward(ctx, req, seedActor)
			if err != nil {
				return fmt.Errorf("create reward %q: %w", req.Title, err)
			}
			taken[req.Title] = true
			created++
			fmt.Fprintf(cmd.OutOrStdout(), "created %s  %s\n", reward.RewardID, reward.Title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d reward(s) created, %d skipped.\n", created, len(reqs)-created)
		return nil
	},
}
