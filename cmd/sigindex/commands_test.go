package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sigindex/engine"
	"github.com/viant/sigindex/signature"
	"github.com/viant/sigindex/storage"
)

func writeSigs(t *testing.T, dir, name string, sigs ...*signature.Signature) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, signature.Save(f, sigs))
	require.NoError(t, f.Close())
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sketch(mins ...uint64) signature.MinHash {
	return signature.MinHash{KSize: 31, Seed: 42, Molecule: "DNA", Mins: mins}
}

func TestCLI_ImportListSearchExport(t *testing.T) {
	t.Setenv("SIGINDEX_DB", "")
	t.Setenv("SIGINDEX_LOG_LEVEL", "")
	t.Setenv("SIGINDEX_LOG_FORMAT", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "sigs.sqlite")

	first := writeSigs(t, dir, "first.json", signature.New("alpha", sketch(1, 2, 3, 4)), signature.New("beta", sketch(3, 4, 5, 6)))
	second := writeSigs(t, dir, "second.json", signature.New("gamma", sketch(9)))

	out, err := run(t, "--db", db, "import", first)
	require.NoError(t, err)
	assert.Equal(t, "index/manifest\n", out)

	_, err = run(t, "--db", db, "import", "--append", second)
	require.NoError(t, err)

	out, err = run(t, "--db", db, "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "alpha")
	assert.Contains(t, lines[1], "beta")
	assert.Contains(t, lines[2], "gamma")

	query := writeSigs(t, dir, "query.json", signature.New("q", sketch(1, 2, 3, 4)))
	out, err = run(t, "--db", db, "search", "--threshold", "0.3", query)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1.000\talpha"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.333\tbeta"), lines[1])

	inSQL, err := run(t, "--db", db, "search", "--sql", "--threshold", "0.3", query)
	require.NoError(t, err)
	assert.Equal(t, out, inSQL)

	out, err = run(t, "--db", db, "search", "--containment", "--threshold", "0.5", query)
	require.NoError(t, err)
	inSQL, err = run(t, "--db", db, "search", "--sql", "--containment", "--threshold", "0.5", query)
	require.NoError(t, err)
	assert.Equal(t, out, inSQL)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	out, err = run(t, "--db", db, "export")
	require.NoError(t, err)
	sigs, err := signature.Load(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, sigs, 3)
	assert.Equal(t, "gamma", sigs[2].Name)
}

func TestCLI_Errors(t *testing.T) {
	t.Setenv("SIGINDEX_DB", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "empty.sqlite")

	_, err := run(t, "--db", db, "ls")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "import", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "--db", db, "search")
	assert.Error(t, err)
}

func TestCLI_AppendKeepsUnreadableIndex(t *testing.T) {
	t.Setenv("SIGINDEX_DB", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "sigs.sqlite")
	first := writeSigs(t, dir, "first.json", signature.New("alpha", sketch(1, 2)), signature.New("beta", sketch(3, 4)))
	second := writeSigs(t, dir, "second.json", signature.New("gamma", sketch(9)))

	_, err := run(t, "--db", db, "import", first)
	require.NoError(t, err)

	const bogus = "sha256:0000000000000000000000000000000000000000000000000000000000000000"
	conn, err := engine.Open(db)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE sig_storage SET digest = ? WHERE path = 'index/manifest'`, bogus)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = run(t, "--db", db, "import", "--append", second)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrDigestMismatch)

	conn, err = engine.Open(db)
	require.NoError(t, err)
	defer conn.Close()
	var recorded string
	require.NoError(t, conn.QueryRow(`SELECT digest FROM sig_storage WHERE path = 'index/manifest'`).Scan(&recorded))
	assert.Equal(t, bogus, recorded, "manifest must not be overwritten")
}

func TestCLI_AppendToMissingIndex(t *testing.T) {
	t.Setenv("SIGINDEX_DB", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "sigs.sqlite")
	only := writeSigs(t, dir, "only.json", signature.New("solo", sketch(7)))

	_, err := run(t, "--db", db, "import", "--append", only)
	require.NoError(t, err)
	out, err := run(t, "--db", db, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "solo")
}

func TestCLI_ListDisplayName(t *testing.T) {
	t.Setenv("SIGINDEX_DB", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "sigs.sqlite")
	named := signature.New("", sketch(5))
	named.Filename = "reads.fa"
	anonymous := signature.New("", sketch(6))
	sigs := writeSigs(t, dir, "sigs.json", named, anonymous)

	_, err := run(t, "--db", db, "import", sigs)
	require.NoError(t, err)
	out, err := run(t, "--db", db, "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "reads.fa", strings.Split(lines[0], "\t")[2])
	assert.Equal(t, anonymous.MD5Sum()[:8], strings.Split(lines[1], "\t")[2])
}
