package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigFromFlags(t *testing.T) {
	out, err := execute(t, NewConfigCommand(&RootOptions{}),
		"--data-dir", "/var/lib/ck",
		"--memory-size", "1000",
		"--tcp-port", "19000",
		"--password", "secret",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "<yandex>\n")
	assert.Contains(t, out, "<tcp_port>19000</tcp_port>")
	assert.Contains(t, out, "<http_port>8123</http_port>")
	assert.Contains(t, out, "<path>/var/lib/ck</path>")
	assert.Contains(t, out, "<max_memory_usage>600</max_memory_usage>")
	assert.Contains(t, out, "<password>secret</password>")
}

func TestConfigFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "ck.yaml", `
tcp_port: 19000
user: analyst
data_dir: data
memory_size: 2000
`)
	settings := writeFile(t, dir, "settings.yaml", `
max_concurrent_queries: 50
profiles:
  analyst:
    max_threads: 2
`)

	out, err := execute(t, NewConfigCommand(&RootOptions{}),
		"--file", file,
		"--settings", settings,
		"--tcp-port", "29000",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "<tcp_port>29000</tcp_port>")
	assert.Contains(t, out, "<path>"+filepath.Join(dir, "data")+"</path>")
	assert.Contains(t, out, "<max_concurrent_queries>50</max_concurrent_queries>")
	assert.Contains(t, out, "<analyst>")
	assert.Contains(t, out, "<max_threads>2</max_threads>")
	assert.Contains(t, out, "<max_memory_usage>1200</max_memory_usage>")
}

func TestConfigWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ck")

	out, err := execute(t, NewConfigCommand(&RootOptions{}),
		"--data-dir", dir,
		"--memory-size", "1000",
		"--write",
	)
	require.NoError(t, err)

	path := filepath.Join(dir, "config.xml")
	assert.Equal(t, path+"\n", out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<path>"+dir+"</path>")
}

func TestConfigErrors(t *testing.T) {
	t.Run("invalid port", func(t *testing.T) {
		_, err := execute(t, NewConfigCommand(&RootOptions{}), "--data-dir", "/tmp/ck", "--memory-size", "1", "--http-port", "70000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid http port: 70000")
	})

	t.Run("missing options file", func(t *testing.T) {
		_, err := execute(t, NewConfigCommand(&RootOptions{}), "--file", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read options")
	})

	t.Run("unexpected argument", func(t *testing.T) {
		_, err := execute(t, NewConfigCommand(&RootOptions{}), "extra")
		require.Error(t, err)
	})
}
