package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goabstract/packtree/internal/pathutil"
	"github.com/goabstract/packtree/internal/testutil"
	"github.com/goabstract/packtree/plumbing/object"
	"github.com/goabstract/packtree/repoloader"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesCmdPrintsResultTree(t *testing.T) {
	t.Parallel()

	b := testutil.NewPackBuilder()
	blobOid := b.AddBlob([]byte("hello"))
	treeOid := b.AddTree([]object.TreeEntry{{Name: "a.txt", ChildOid: blobOid}})
	commitOid := b.AddCommit(treeOid)
	packData := b.Build()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git/objects/pack", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/objects/pack/pack-test.pack", packData, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/HEAD", []byte(commitOid.String()+"\n"), 0o644))

	repoPath := pathutil.NewDirPathFlagWithDefault("/repo")

	var buf bytes.Buffer
	require.NoError(t, changesCmd(&buf, fs, repoPath, ""))

	var root map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &root))
	assert.Equal(t, "directory", root["kind"])
	assert.Equal(t, float64(1), root["num_files"])
	children, ok := root["children"].([]interface{})
	require.True(t, ok)
	require.Len(t, children, 1)
	entry := children[0].(map[string]interface{})
	assert.Equal(t, "a.txt", entry["name"])
}

func TestChangesCmdHeadOverride(t *testing.T) {
	t.Parallel()

	b := testutil.NewPackBuilder()
	treeOid := b.AddTree(nil)
	commitOid := b.AddCommit(treeOid)
	packData := b.Build()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git/objects/pack", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/objects/pack/pack-test.pack", packData, 0o644))
	// HEAD is deliberately left unwritten: the --head override must make
	// it unnecessary to resolve HEAD at all.

	repoPath := pathutil.NewDirPathFlagWithDefault("/repo")

	var buf bytes.Buffer
	require.NoError(t, changesCmd(&buf, fs, repoPath, commitOid.String()))
	assert.Contains(t, buf.String(), `"kind": "directory"`)
}

func TestResolveHeadAcceptsRefName(t *testing.T) {
	t.Parallel()

	b := testutil.NewPackBuilder()
	treeOid := b.AddTree(nil)
	commitOid := b.AddCommit(treeOid)
	packData := b.Build()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git/objects/pack", 0o755))
	require.NoError(t, fs.MkdirAll("/repo/.git/refs/heads", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/objects/pack/pack-test.pack", packData, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/refs/heads/main", []byte(commitOid.String()+"\n"), 0o644))

	repo, err := repoloader.Open(fs, "/repo")
	require.NoError(t, err)

	got, err := resolveHead(repo, "refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, commitOid, got)
}

func TestResolveHeadRefNameThatDoesNotExistIsError(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git/objects/pack", 0o755))
	repo, err := repoloader.Open(fs, "/repo")
	require.NoError(t, err)

	_, err = resolveHead(repo, "refs/heads/does-not-exist")
	require.Error(t, err)
}

func TestResolveHeadRejectsInvalidOverride(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git/objects/pack", 0o755))
	repo, err := repoloader.Open(fs, "/repo")
	require.NoError(t, err)

	_, err = resolveHead(repo, "refs/heads/ma ster")
	require.Error(t, err)
}
