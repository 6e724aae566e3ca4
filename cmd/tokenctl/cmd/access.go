package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"go.pilab.hu/tokenstore/domain"
)

var errAccessTokenNotFound = errors.New("access token not found")

func newAccessCmd(a *app) *cobra.Command {
	accessCmd := &cobra.Command{
		Use:     "access",
		Short:   "Inspect and revoke access tokens",
		Aliases: []string{"at"},
	}

	accessCmd.AddCommand(
		&cobra.Command{
			Use:   "get <token>",
			Short: "Show a stored access token",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
				token, ok := a.store.ReadAccessToken(ctx, args[0])
				if !ok {
					return errAccessTokenNotFound
				}
				return printYAML(out, newAccessTokenView(token, time.Now()))
			}),
		},
		&cobra.Command{
			Use:   "auth <token>",
			Short: "Show the authentication an access token was issued for",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
				auth, ok := a.store.ReadAuthentication(ctx, args[0])
				if !ok {
					return errAccessTokenNotFound
				}
				return printYAML(out, newAuthenticationView(auth))
			}),
		},
		&cobra.Command{
			Use:   "remove <token>",
			Short: "Revoke an access token",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(ctx context.Context, out io.Writer, args []string) error {
				err := a.store.RemoveAccessToken(ctx, args[0])
				a.audit.Record(ctx, "access.remove", fingerprint(args[0]), "", err)
				if err != nil {
					return fmt.Errorf("failed to remove access token: %w", err)
				}
				fmt.Fprintln(out, "Access token removed.")
				return nil
			}),
		},
		newAccessListCmd(a),
	)

	return accessCmd
}

func newAccessListCmd(a *app) *cobra.Command {
	var clientID, username, refreshToken string
	var all bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List access tokens by client, user or refresh token",
		Long: `Lists stored access tokens. Select them with --client-id (optionally
narrowed with --username), with --refresh-token, or list everything with --all.`,
		Args: cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context, out io.Writer, _ []string) error {
			switch {
			case all && (clientID != "" || refreshToken != ""):
				return errors.New("--all cannot be combined with other selectors")
			case clientID != "" && refreshToken != "":
				return errors.New("--client-id and --refresh-token are mutually exclusive")
			case username != "" && clientID == "":
				return errors.New("--username requires --client-id")
			case !all && clientID == "" && refreshToken == "":
				return errors.New("one of --client-id, --refresh-token or --all is required")
			}

			var tokens []*domain.AccessToken
			switch {
			case all:
				tokens = a.store.FindAllAccessTokens(ctx)
			case refreshToken != "":
				tokens = a.store.FindTokensByRefreshToken(ctx, refreshToken)
			case username != "":
				tokens = a.store.FindTokensByClientIDAndUserName(ctx, clientID, username)
			default:
				tokens = a.store.FindTokensByClientID(ctx, clientID)
			}

			if len(tokens) == 0 {
				fmt.Fprintln(out, "No access tokens found.")
				return nil
			}

			now := time.Now()
			views := make([]accessTokenView, 0, len(tokens))
			for _, t := range tokens {
				views = append(views, newAccessTokenView(t, now))
			}
			return printYAML(out, views)
		}),
	}

	listCmd.Flags().StringVar(&clientID, "client-id", "", "client the tokens were issued to")
	listCmd.Flags().StringVar(&username, "username", "", "user the tokens were issued for")
	listCmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token the tokens are linked to")
	listCmd.Flags().BoolVar(&all, "all", false, "list every stored access token")

	return listCmd
}
