package object_test

import (
	"testing"

	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsCommitNoParents(t *testing.T) {
	t.Parallel()

	treeOid, err := plumbing.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)

	content := "tree " + treeOid.String() + "\n" +
		"author John Doe <john@domain.tld> 1566115917 -0700\n" +
		"committer John Doe <john@domain.tld> 1566115917 -0700\n" +
		"\n" +
		"initial commit\n"

	o := object.New(plumbing.NullOid, object.TypeCommit, []byte(content))
	commit, err := o.AsCommit()
	require.NoError(t, err)
	assert.Equal(t, treeOid, commit.TreeOid)
	assert.Empty(t, commit.ParentOids)
}

func TestAsCommitWithParentsAndGPGSig(t *testing.T) {
	t.Parallel()

	treeOid, err := plumbing.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)
	parentOid, err := plumbing.NewOidFromStr("bbb720a96e4c29b9950a4c577c98470a4d5dd089")
	require.NoError(t, err)

	content := "tree " + treeOid.String() + "\n" +
		"parent " + parentOid.String() + "\n" +
		"author John Doe <john@domain.tld> 1566115917 -0700\n" +
		"committer John Doe <john@domain.tld> 1566115917 -0700\n" +
		"gpgsig -----BEGIN PGP SIGNATURE-----\n\ndata\n-----END PGP SIGNATURE-----\n" +
		"\n" +
		"a message\nwith multiple lines\n"

	o := object.New(plumbing.NullOid, object.TypeCommit, []byte(content))
	commit, err := o.AsCommit()
	require.NoError(t, err)
	assert.Equal(t, treeOid, commit.TreeOid)
	require.Len(t, commit.ParentOids, 1)
	assert.Equal(t, parentOid, commit.ParentOids[0])
}

func TestAsCommitMergeHasMultipleParents(t *testing.T) {
	t.Parallel()

	treeOid, err := plumbing.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)
	p1, err := plumbing.NewOidFromStr("bbb720a96e4c29b9950a4c577c98470a4d5dd089")
	require.NoError(t, err)
	p2, err := plumbing.NewOidFromStr("0eaf966ff79d8f61958aaefe163620d952606516")
	require.NoError(t, err)

	content := "tree " + treeOid.String() + "\n" +
		"parent " + p1.String() + "\n" +
		"parent " + p2.String() + "\n" +
		"author John Doe <john@domain.tld> 1566115917 -0700\n" +
		"committer John Doe <john@domain.tld> 1566115917 -0700\n" +
		"\n" +
		"merge commit\n"

	o := object.New(plumbing.NullOid, object.TypeCommit, []byte(content))
	commit, err := o.AsCommit()
	require.NoError(t, err)
	require.Len(t, commit.ParentOids, 2)
	assert.Equal(t, []plumbing.Oid{p1, p2}, commit.ParentOids)
}

func TestAsCommitWithoutTreeIsInvalid(t *testing.T) {
	t.Parallel()

	content := "author John Doe <john@domain.tld> 1566115917 -0700\n\nmessage\n"
	o := object.New(plumbing.NullOid, object.TypeCommit, []byte(content))
	_, err := o.AsCommit()
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrCommitInvalid)
}

func TestAsCommitWrongType(t *testing.T) {
	t.Parallel()

	o := object.New(plumbing.NullOid, object.TypeBlob, []byte("not a commit"))
	_, err := o.AsCommit()
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrCommitInvalid)
}
