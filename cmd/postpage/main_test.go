package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturesPath() string {
	return filepath.Join("..", "..", "internal", "content", "testdata", "posts.json")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDoctorWithFixtures(t *testing.T) {
	out, err := runCLI(t, "doctor", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--fixtures", fixturesPath())
	require.NoError(t, err, out)

	assert.Contains(t, out, "Config is valid")
	assert.Contains(t, out, "Templates and public assets are embedded")
	assert.Contains(t, out, `Post "como-desenvolver-um-blog-com-nextjs"`)
	assert.Contains(t, out, "Everything looks good")
}

func TestDoctorReportsMissingEndpoint(t *testing.T) {
	t.Setenv("POSTPAGE_CONTENT_ENDPOINT", "")

	out, err := runCLI(t, "doctor", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
	assert.Contains(t, out, "content endpoint not configured")
}

func TestDoctorReportsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postpage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages:\n  fallback: sometimes\n"), 0o644))

	out, err := runCLI(t, "doctor", "--config", path, "--fixtures", fixturesPath())
	assert.Error(t, err)
	assert.Contains(t, out, "pages.fallback")
}

func TestExportToDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "export", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--fixtures", fixturesPath(), "--out", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "aberto", "como-desenvolver-um-blog-com-nextjs", "index.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "404.html"))
	assert.NoError(t, err)
}

func TestDoctorWarnsOnMissingPost(t *testing.T) {
	fixtures := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(fixtures, []byte("[]"), 0o644))

	out, err := runCLI(t, "doctor", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--fixtures", fixtures)
	require.NoError(t, err, out)
	assert.Contains(t, out, `Post "como-desenvolver-um-blog-com-nextjs" not found; its page will answer 404`)
}
