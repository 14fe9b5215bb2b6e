package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goabstract/packtree/changewalk"
	"github.com/goabstract/packtree/internal/pathutil"
	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/packfile"
	"github.com/goabstract/packtree/repoloader"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"
)

func newChangesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changes",
		Short: "print the repository's file tree annotated with per-path change counts",
		Args:  cobra.NoArgs,
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	repoPath := pathutil.NewDirPathFlagWithDefault(cwd)
	cmd.Flags().VarP(repoPath, "repo", "r", "path to the repository to inspect")
	head := cmd.Flags().String("head", "", "oid or reference name to use as history's head, instead of resolving HEAD")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return changesCmd(cmd.OutOrStdout(), afero.NewOsFs(), repoPath, *head)
	}
	return cmd
}

func changesCmd(out io.Writer, fs afero.Fs, repoPath pflag.Value, headFlag string) error {
	repo, err := repoloader.Open(fs, repoPath.String())
	if err != nil {
		return xerrors.Errorf("could not open repository: %w", err)
	}

	head, err := resolveHead(repo, headFlag)
	if err != nil {
		return err
	}

	data, err := repo.ReadPack()
	if err != nil {
		return xerrors.Errorf("could not read packfile: %w", err)
	}

	table, err := packfile.Decode(data, packfile.DecodeOptions{
		OnSkippedDelta: func(missingBase plumbing.Oid) {
			fmt.Fprintf(os.Stderr, "skipping delta with missing base %s\n", missingBase.String())
		},
	})
	if err != nil {
		return xerrors.Errorf("could not decode packfile: %w", err)
	}

	root, err := changewalk.Walk(table, head)
	if err != nil {
		return xerrors.Errorf("could not walk history: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// resolveHead turns the --head flag into a commit oid: a bare hex oid
// is used as-is, anything else is treated as a reference name (e.g.
// "refs/heads/main") and resolved through repo, the same way HEAD
// itself is. With no --head flag at all, HEAD is resolved instead.
func resolveHead(repo *repoloader.Repo, headFlag string) (plumbing.Oid, error) {
	if headFlag == "" {
		oid, err := repo.Head()
		if err != nil {
			return plumbing.NullOid, xerrors.Errorf("could not resolve HEAD: %w", err)
		}
		return oid, nil
	}

	if oid, err := plumbing.NewOidFromStr(headFlag); err == nil {
		return oid, nil
	}

	if !plumbing.IsRefNameValid(headFlag) {
		return plumbing.NullOid, xerrors.Errorf("--head value %q is neither a valid oid nor a valid reference name", headFlag)
	}
	oid, err := repo.ResolveRef(headFlag)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not resolve --head reference %q: %w", headFlag, err)
	}
	return oid, nil
}
