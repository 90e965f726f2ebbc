package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/whoknow/internal/api/request"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Account and session commands",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerLogoutCmd())

	return cmd
}

// authenticate posts credentials, keeps the returned session token for later
// commands and prints the account
func authenticate(path string, req any) error {
	var result AuthResult
	if err := client.Post(path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	NewOutput(cfg.Output).Print(&result)
	return nil
}

func newPlayerGuestCmd() *cobra.Command {
	var req request.CreateGuestRequest

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Play as a guest under a display name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/guest", req)
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var req request.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account that keeps its identity across sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/register", req)
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&req.Username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&req.Password, "pass", "", "Password (required)")
	for _, f := range []string{"name", "user", "pass"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var req request.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a registered account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/login", req)
		},
	}

	cmd.Flags().StringVar(&req.Username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&req.Password, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the account behind the current token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show("/api/v1/players/me", &Account{})
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				if err := client.Post("/api/v1/players/logout", nil, nil); err != nil {
					return err
				}
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
