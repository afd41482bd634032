package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/aerial-tour-booking/internal/utils"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long: `hash-password hashes the given password, or the first line of stdin
when no argument is passed, with bcrypt (cost from bcrypt_cost).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if len(args) == 1 {
			plain = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			plain = strings.TrimRight(line, "\r\n")
		}
		if plain == "" {
			return errors.New("password must not be empty")
		}
		hash, err := utils.HashPassword(plain, cfg.GetInt(keyBcryptCost))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject> <email>",
	Short: "Mint a development identity token",
	Long: `token signs a session token with AUTH_JWT_SECRET, the same way the
identity provider does, so booking routes can be called with curl.

Example:
  curl -H "Authorization: Bearer $(tourctl token google-123 me@example.com)" \
    -X POST localhost:8080/v1/tours/3/bookings`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := cfg.GetString(keyJWTSecret)
		if secret == "" {
			return errors.New("auth_jwt_secret is not set (env AUTH_JWT_SECRET)")
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		tok, err := utils.NewSessionToken(secret, args[0], args[1], ttl)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, tok)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
}
