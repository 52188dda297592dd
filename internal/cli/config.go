package cli

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/internal/config"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vidgrab configuration",
}

// vidgrab config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()

		fmt.Println("Current configuration:")
		fmt.Printf("  Listen:     %s\n", cfg.Addr())
		fmt.Printf("  yt-dlp:     %s\n", cfg.YtdlpPath)
		fmt.Printf("  ScratchDir: %s\n", cfg.ScratchDir)
		fmt.Printf("  HistoryDB:  %s\n", orDefault(cfg.HistoryDB, "(default)"))
		fmt.Printf("  OutputDir:  %s\n", orDefault(cfg.OutputDir, "(current dir)"))
		fmt.Printf("  Quality:    %s\n", cfg.Quality)
		fmt.Printf("  Format:     %s\n", cfg.Format)
		fmt.Printf("  Tokens:     %d configured\n", len(cfg.Tokens))
		fmt.Printf("  Config:     %s\n", config.SavePath())
	},
}

// vidgrab config init - write the default config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists() {
			return fmt.Errorf("config already exists at %s", config.SavePath())
		}
		if err := config.Default().Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.SavePath())
		return nil
	},
}

// vidgrab config set-token - add an account token without echoing it
var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <account>",
	Short: "Add or replace an API token for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		cfg := config.LoadOrDefault()

		fmt.Print("Token: ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}

		if cfg.Tokens == nil {
			cfg.Tokens = map[string]string{}
		}
		// drop any previous token for the same account
		for t, a := range cfg.Tokens {
			if a == account {
				delete(cfg.Tokens, t)
			}
		}
		cfg.Tokens[token] = account

		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Token for %q saved to %s\n", account, config.SavePath())
		return nil
	},
}

// vidgrab config remove-token - remove an account's token
var configRemoveTokenCmd = &cobra.Command{
	Use:   "remove-token <account>",
	Short: "Remove an account's API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		cfg := config.LoadOrDefault()

		removed := false
		for t, a := range cfg.Tokens {
			if a == account {
				delete(cfg.Tokens, t)
				removed = true
			}
		}
		if !removed {
			return fmt.Errorf("no token configured for %q", account)
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Printf("Removed token for %q\n", account)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetTokenCmd, configRemoveTokenCmd)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
