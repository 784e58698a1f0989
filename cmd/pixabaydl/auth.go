package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pixabaydl/pkg/auth"
	"pixabaydl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Pixabay API key",
	Long: `Manage stored Pixabay API keys.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - PIXABAY_API_KEY environment variable (read only)

Keys are grouped by profile; use --profile to keep more than one.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Pixabay API key securely",
	Example: `  # Interactive login
  pixabaydl auth login

  # Store a key for a second profile
  pixabaydl auth login --profile work`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key for the profile comes from",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	out := cmd.OutOrStdout()

	auth.ShowAPIKeyGuide(out)
	fmt.Fprintln(out)

	if existing, _ := manager.Retrieve(profile); existing != nil {
		fmt.Fprintf(out, "A key is already stored for profile '%s'. Replace it? (y/N): ", profile)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Fprint(out, "Pixabay API key (input is hidden): ")
	key, err := readPassword(reader)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	where, err := manager.Store(&auth.Credential{Profile: profile, APIKey: key})
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("API key %s saved for profile '%s'", auth.MaskAPIKey(strings.TrimSpace(key)), profile))
	ui.PrintInfo("Stored in", where)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(profile); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored key", profile)
			return nil
		}
		return err
	}
	ui.PrintSuccess("API key removed for profile: " + profile)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	cred, where, err := manager.Locate(profile)
	if err != nil {
		ui.PrintWarning("No API key found for profile", profile)
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'pixabaydl auth login' to store one.")
		return nil
	}

	ui.PrintInfo("Profile", profile)
	ui.PrintInfo("API key", auth.MaskAPIKey(cred.APIKey))
	ui.PrintInfo("Source", where)
	if !cred.LastModified.IsZero() {
		ui.PrintInfo("Last modified", cred.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// readPassword reads a secret from stdin without echoing when stdin is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(secret), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
