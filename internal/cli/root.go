// Package cli implements blogctl, the offline administration tool that works
// directly on a content root.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ba5maa/FileBlogSystem/internal/repository"
)

// Version is reported by blogctl --version.
var Version = "dev"

// Deps are the streams and hooks commands use instead of the process globals.
type Deps struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// ReadPassword prompts for a password. Defaults to a no-echo terminal
	// prompt, or a line from In when stdin is not a terminal.
	ReadPassword func(prompt string) (string, error)

	contentRoot string
}

func (d *Deps) applyDefaults() {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
	if d.ReadPassword == nil {
		d.ReadPassword = terminalPassword(d.In, d.Err)
	}
}

// root opens the content root selected by --content-root.
func (d *Deps) root() (*repository.ContentRoot, error) {
	return repository.NewContentRoot(d.contentRoot)
}

// NewRootCmd builds the blogctl command tree.
func NewRootCmd(deps *Deps) *cobra.Command {
	deps.applyDefaults()

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "blogctl manages a FileBlogSystem content root",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetIn(deps.In)
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	defaultRoot := os.Getenv("CONTENT_ROOT")
	if defaultRoot == "" {
		defaultRoot = "./content"
	}
	root.PersistentFlags().StringVar(&deps.contentRoot, "content-root", defaultRoot, "path of the content root")

	root.AddCommand(
		NewHashPasswordCmd(deps),
		NewUserCmd(deps),
		NewTreeCmd(deps),
	)
	return root
}

// Run executes blogctl with args and returns the process exit code.
func Run(ctx context.Context, deps *Deps, args []string) int {
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
