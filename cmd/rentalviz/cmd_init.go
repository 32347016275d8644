package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joacominatel/rentalviz/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	initPath  string
	initForce bool
)

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the database password in the OS keyring",
	Long: `Reads a password from standard input and stores it in the OS keyring
under the configured connection.

Only the first line is read and only its line ending is removed. Leading and
trailing spaces are kept as part of the password. An empty password is
rejected.

Example:
  printf '%s' "$PGPASSWORD" | rentalviz set-password`,
	Args: cobra.NoArgs,
	RunE: setPassword,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := initPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s: %w", path, errConfigExists)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	written, err := config.Save(config.Default(), path)
	if err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", written))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
	return nil
}

func setPassword(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	if err := config.StorePassword(cfg.Database, password); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Password stored for %s\n", cfg.Database.DisplayString())
	return nil
}
