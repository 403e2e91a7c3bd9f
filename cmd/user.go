package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mergestat/timediff"
	"github.com/ridewise/ridewise/internal/auth"
	"github.com/spf13/cobra"
)

var userAddFlags struct {
	Password string
	Email    string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local accounts",
}

var userAddCmd = &cobra.Command{
	Use:     "add <username>",
	Short:   "Create a local account",
	Example: `ridewise user add alice --password 'S3cret!pass' --email alice@example.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		service := auth.NewService(db, cfg.AdminUsers)
		user, err := service.Register(cmd.Context(), args[0], userAddFlags.Password)
		if err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				strength := auth.PasswordStrength(userAddFlags.Password)
				return fmt.Errorf("%w (rated %s, score %d/5)", err, strength.Level, strength.Score)
			}
			return err
		}

		if email := strings.TrimSpace(userAddFlags.Email); email != "" {
			if err := db.UpdateUserEmail(cmd.Context(), user.ID, email); err != nil {
				return fmt.Errorf("failed to set email: %w", err)
			}
		}

		role := "user"
		if service.IsAdmin(user.Username) {
			role = "admin"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (id %d)\n", role, user.Username, user.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		users, err := db.GetAllUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		service := auth.NewService(db, cfg.AdminUsers)
		now := time.Now()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tADMIN\tLAST LOGIN")
		for _, u := range users {
			lastLogin := "never"
			if u.LastLoginAt != nil {
				lastLogin = timediff.TimeDiff(*u.LastLoginAt, timediff.WithStartTime(now))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Email, service.IsAdmin(u.Username), lastLogin)
		}
		return w.Flush()
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userAddFlags.Password, "password", "p", "", "Password of the new account")
	userAddCmd.Flags().StringVar(&userAddFlags.Email, "email", "", "Email address for booking receipts")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}
