package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/config"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		backend  string
		shopName string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a .laundrydesk.yaml configuration file",
		Long:  "Create a .laundrydesk.yaml with sensible defaults for a single counter.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			cfg.Backend = domain.Backend(backend)
			if shopName != "" {
				cfg.ShopName = shopName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", string(domain.BackendFile), "Storage backend (file, sqlite)")
	cmd.Flags().StringVar(&shopName, "shop-name", "", "Name printed on receipts")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .laundrydesk.yaml")

	return cmd
}

func generateConfig(cfg domain.Config) string {
	result := fmt.Sprintf(`# laundrydesk configuration
# Every key can be overridden with LAUNDRYDESK_<KEY>, e.g. LAUNDRYDESK_BACKEND=sqlite.

shop_name: %q
data_dir: %s
backend: %s
`, cfg.ShopName, cfg.DataDir, cfg.Backend)

	if cfg.Backend == domain.BackendSQLite {
		result += fmt.Sprintf("sqlite_path: %s\n", cfg.SQLitePath)
	}

	result += fmt.Sprintf(`timezone: %s
snapshot_schedule: %q
snapshot_retention: %d

currency:
  symbol: %q

write_retry:
  max_retries: %d
  interval: %s

log_level: %s
log_format: %s

# Require a login for changes. Generate the hash with: laundrydesk hash-password
# auth:
#   username: %s
#   password_hash: ""
`, cfg.Timezone, cfg.SnapshotSchedule, cfg.SnapshotRetention, cfg.Currency.Symbol,
		cfg.WriteRetry.MaxRetries, cfg.WriteRetry.Interval,
		cfg.LogLevel, cfg.LogFormat, cfg.Auth.Username)

	return result
}
