package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/auth"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the operator session",
	Long: `Save a bearer token issued by the backend as the operator session.

The session file is used by every other command until it expires, the
backend rejects it or logout is run.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved operator session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "with-token", "", "bearer token issued by the backend")
	_ = loginCmd.MarkFlagRequired("with-token")
}

func runLogin(cmd *cobra.Command, args []string) error {
	tok := strings.TrimSpace(loginToken)
	sess := auth.Session{Token: tok}
	if claims := auth.ParseClaims(tok); claims != nil {
		sess.User = &models.User{
			ID:       claims.Subject,
			Username: claims.Username,
			Role:     claims.Role,
		}
	}

	store := auth.NewFileStore(cfg.Session.TokenFile, clock.Real())
	if err := store.Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if _, err := store.Token(context.Background()); err != nil {
		_ = store.Clear()
		return err
	}

	who := "operator"
	if sess.User != nil && sess.User.Username != "" {
		who = sess.User.Username
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s, session saved to %s\n", who, cfg.Session.TokenFile)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store := auth.NewFileStore(cfg.Session.TokenFile, clock.Real())
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
