package repoloader

import (
	"path/filepath"

	"github.com/goabstract/packtree/internal/gitpath"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Config is the subset of a repository's .git/config this tool cares
// about: whether it's bare, and whether filesystem paths should be
// compared case-insensitively.
type Config struct {
	Bare          bool
	IgnoreCase    bool
	RepoFormatVer int
}

// coreSection and its keys mirror the names git itself writes to
// .git/config; repoloader never writes a config, only reads one.
const (
	coreSection          = "core"
	coreKeyBare          = "bare"
	coreKeyIgnoreCase    = "ignorecase"
	coreKeyFormatVersion = "repositoryformatversion"
)

// Config reads and parses the repository's .git/config. A repository
// with no config file (unusual, but not impossible for a bare clone
// assembled by hand) gets the zero Config rather than an error.
func (r *Repo) Config() (*Config, error) {
	p := filepath.Join(r.gitDir, gitpath.ConfigPath)
	exists, err := afero.Exists(r.fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "could not check for config at %s", p)
	}
	if !exists {
		return &Config{}, nil
	}

	data, err := afero.ReadFile(r.fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config at %s", p)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse config at %s", p)
	}

	core := cfg.Section(coreSection)
	return &Config{
		Bare:          core.Key(coreKeyBare).MustBool(false),
		IgnoreCase:    core.Key(coreKeyIgnoreCase).MustBool(false),
		RepoFormatVer: core.Key(coreKeyFormatVersion).MustInt(0),
	}, nil
}
