package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"
)

// NewTreeCmd prints the layout of the content root.
func NewTreeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "print the files of the content root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := deps.root()
			if err != nil {
				return err
			}
			out, err := renderTree(root.Root)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// contentTree mirrors a directory listing as a gotree.Tree.
type contentTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func (t contentTree) dir(rel string) gotree.Tree {
	if rel == "." {
		return t.tree
	}
	d, ok := t.dirs[rel]
	if !ok {
		d = t.dir(filepath.Dir(rel)).Add(filepath.Base(rel) + "/")
		t.dirs[rel] = d
	}
	return d
}

func renderTree(rootPath string) (string, error) {
	t := contentTree{tree: gotree.New(rootPath), dirs: make(map[string]gotree.Tree)}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			t.dir(rel)
			return nil
		}
		t.dir(filepath.Dir(rel)).Add(d.Name())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk content root: %w", err)
	}
	return t.tree.Print(), nil
}
