package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/emilianohg/workday/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the GitHub token stored in the OS keychain",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a GitHub token (read from the terminal or stdin)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		if interactive {
			fmt.Print("GitHub token: ")
		}

		token, err := readToken(os.Stdin, interactive)
		if err != nil {
			fail("failed to read token", err)
		}
		if err := config.SaveGitHubToken(token); err != nil {
			fail("failed to store token", err)
		}
		fmt.Println("Token saved to the OS keychain.")
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored GitHub token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.DeleteGitHubToken(); err != nil {
			fail("failed to remove token", err)
		}
		fmt.Println("Token removed.")
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}

// readToken reads without echo from a terminal, or the first line of piped input.
func readToken(in *os.File, interactive bool) (string, error) {
	if interactive {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
