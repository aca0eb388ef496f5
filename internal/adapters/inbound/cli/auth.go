package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/auth"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for auth.password_hash",
		Long:  "Print a bcrypt hash for auth.password_hash. Without an argument the password is read from the first line of stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) > 0 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check operator credentials",
		Long:  "Check --user/--password (or LAUNDRYDESK_USER and LAUNDRYDESK_PASSWORD) against the configured credential.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(s domain.Session) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.Username)
				return nil
			})
		},
	}
}
