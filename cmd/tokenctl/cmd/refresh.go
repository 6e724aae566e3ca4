package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var errRefreshTokenNotFound = errors.New("refresh token not found")

func newRefreshCmd(a *app) *cobra.Command {
	refreshCmd := &cobra.Command{
		Use:     "refresh",
		Short:   "Inspect and revoke refresh tokens",
		Aliases: []string{"rt"},
	}

	refreshCmd.AddCommand(
		&cobra.Command{
			Use:   "get <token>",
			Short: "Show a stored refresh token",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
				token, ok := a.store.ReadRefreshToken(ctx, args[0])
				if !ok {
					return errRefreshTokenNotFound
				}
				return printYAML(out, newRefreshTokenView(token, time.Now()))
			}),
		},
		&cobra.Command{
			Use:   "auth <token>",
			Short: "Show the authentication a refresh token was issued for",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
				auth, ok := a.store.ReadAuthenticationForRefreshToken(ctx, args[0])
				if !ok {
					return errRefreshTokenNotFound
				}
				return printYAML(out, newAuthenticationView(auth))
			}),
		},
		newRefreshRemoveCmd(a),
		&cobra.Command{
			Use:   "list",
			Short: "List every stored refresh token",
			Args:  cobra.NoArgs,
			RunE: a.runE(func(ctx context.Context, out io.Writer, _ []string) error {
				tokens := a.store.FindAllRefreshTokens(ctx)
				if len(tokens) == 0 {
					fmt.Fprintln(out, "No refresh tokens found.")
					return nil
				}

				now := time.Now()
				views := make([]refreshTokenView, 0, len(tokens))
				for _, t := range tokens {
					views = append(views, newRefreshTokenView(t, now))
				}
				return printYAML(out, views)
			}),
		},
	)

	return refreshCmd
}

func newRefreshRemoveCmd(a *app) *cobra.Command {
	var cascade bool

	removeCmd := &cobra.Command{
		Use:   "remove <token>",
		Short: "Revoke a refresh token",
		Long: `Revokes a refresh token. With --cascade the access tokens issued
alongside it are revoked first.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
			target := fingerprint(args[0])

			if cascade {
				err := a.store.RemoveAccessTokenUsingRefreshToken(ctx, args[0])
				a.audit.Record(ctx, "access.remove_by_refresh_token", target, "cascade", err)
				if err != nil {
					return fmt.Errorf("failed to remove linked access tokens: %w", err)
				}
			}

			err := a.store.RemoveRefreshToken(ctx, args[0])
			a.audit.Record(ctx, "refresh.remove", target, "", err)
			if err != nil {
				return fmt.Errorf("failed to remove refresh token: %w", err)
			}

			if cascade {
				fmt.Fprintln(out, "Refresh token and linked access tokens removed.")
			} else {
				fmt.Fprintln(out, "Refresh token removed.")
			}
			return nil
		}),
	}

	removeCmd.Flags().BoolVar(&cascade, "cascade", false, "also revoke the access tokens linked to the refresh token")

	return removeCmd
}
