package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
)

// NewHashPasswordCmd prints the bcrypt hash stored in profile.json for a
// password.
func NewHashPasswordCmd(deps *Deps) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "print the bcrypt hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = deps.ReadPassword("Password: "); err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password to hash instead of prompting")
	return cmd
}

// terminalPassword reads without echo when stdin is a terminal and falls
// back to one line of in otherwise.
func terminalPassword(in io.Reader, prompt io.Writer) func(string) (string, error) {
	return func(label string) (string, error) {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(prompt, label)
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(prompt)
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(b), nil
		}

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
