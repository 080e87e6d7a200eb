package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/reports/versions.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports", "versions.csv"), got)

	got, err = ExpandPath("/tmp/versions.csv")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/versions.csv", got)
}

func TestCreateFolderIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, CreateFolderIfNotExists(dir))
	require.NoError(t, CreateFolderIfNotExists(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReadRepositoryList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	content := "# payments\nEVT/attendee-order\n\n  PT/sms  \nhttps://stash.example.com/projects/LS/repos/ls-adr/browse\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadRepositoryList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"EVT/attendee-order",
		"PT/sms",
		"https://stash.example.com/projects/LS/repos/ls-adr/browse",
	}, got)
}

func TestReadRepositoryListErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadRepositoryList(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = ReadRepositoryList(dir)
	assert.ErrorContains(t, err, "is a directory")
}
