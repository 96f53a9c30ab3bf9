package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"storefront/services"

	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash to use as admin.password_hash",
	Long: `Hash an admin password with bcrypt. The password is read from the
first argument, or from stdin when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: hashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func hashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
