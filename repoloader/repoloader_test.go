package repoloader_test

import (
	"path/filepath"
	"testing"

	"github.com/goabstract/packtree/internal/gitpath"
	"github.com/goabstract/packtree/repoloader"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("finds .git in a parent directory", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/repo/.git/objects/pack", 0o755))
		require.NoError(t, fs.MkdirAll("/work/repo/src/nested", 0o755))

		repo, err := repoloader.Open(fs, "/work/repo/src/nested")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/work/repo", gitpath.DotGitPath), repo.GitDir())
	})

	t.Run("bare repository has no .git subdirectory", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/bare.git/objects/pack", 0o755))
		require.NoError(t, afero.WriteFile(fs, "/work/bare.git/HEAD", []byte("ref: refs/heads/main\n"), 0o644))

		repo, err := repoloader.Open(fs, "/work/bare.git")
		require.NoError(t, err)
		assert.Equal(t, "/work/bare.git", repo.GitDir())
	})

	t.Run("no .git anywhere up the tree is an error", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/nowhere", 0o755))

		_, err := repoloader.Open(fs, "/work/nowhere")
		require.Error(t, err)
		assert.ErrorIs(t, err, repoloader.ErrNotAGitDir)
	})
}

func TestPackFiles(t *testing.T) {
	t.Parallel()

	t.Run("finds .pack files", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/repo/.git/objects/pack", 0o755))
		require.NoError(t, afero.WriteFile(fs, "/work/repo/.git/objects/pack/pack-abc.pack", []byte("PACK"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/work/repo/.git/objects/pack/pack-abc.idx", []byte("idx"), 0o644))

		repo, err := repoloader.Open(fs, "/work/repo")
		require.NoError(t, err)

		paths, err := repo.PackFiles()
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "/work/repo/.git/objects/pack/pack-abc.pack", paths[0])
	})

	t.Run("no pack file is an error", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/repo/.git/objects/pack", 0o755))

		repo, err := repoloader.Open(fs, "/work/repo")
		require.NoError(t, err)

		_, err = repo.PackFiles()
		require.Error(t, err)
		assert.ErrorIs(t, err, repoloader.ErrNoPackfile)
	})
}

func TestReadPack(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/repo/.git/objects/pack", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/work/repo/.git/objects/pack/pack-abc.pack", []byte("PACKDATA"), 0o644))

	repo, err := repoloader.Open(fs, "/work/repo")
	require.NoError(t, err)

	data, err := repo.ReadPack()
	require.NoError(t, err)
	assert.Equal(t, []byte("PACKDATA"), data)
}
