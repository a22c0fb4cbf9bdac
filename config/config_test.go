package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/docpreview/config"
	"github.com/lambda-feedback/docpreview/preview"
	"github.com/lambda-feedback/docpreview/util/conf"
)

func executable(t *testing.T) string {
	exe, err := os.Executable()
	require.NoError(t, err)

	exe, err = filepath.EvalSymlinks(exe)
	require.NoError(t, err)

	return exe
}

func TestDefaultConfig(t *testing.T) {
	defaults := config.DefaultConfig(os.Args[0])

	assert.Equal(t, preview.LocalPath(executable(t)), defaults["docs.root"])
	assert.Equal(t, "", defaults["staging.dir"])
	assert.Equal(t, 8000, defaults["http.port"])
	assert.Equal(t, true, defaults["docs.serial"])
}

func TestDefaultConfig_BareName(t *testing.T) {
	defaults := config.DefaultConfig("docpreview")

	root, ok := defaults["docs.root"].(string)
	require.True(t, ok)

	assert.True(t, filepath.IsAbs(root))
	assert.Equal(t, preview.LocalPath(executable(t)), root)
	assert.NotEqual(t, preview.LocalPath("docpreview"), root)
}

func TestDefaultConfig_Parse(t *testing.T) {
	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults:  config.DefaultConfig("docpreview"),
		EnvPrefix: "DOCPREVIEW_TEST_",
	})
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Http.Port)
	assert.Equal(t, "", cfg.Http.Host)
	assert.Equal(t, 10*time.Second, cfg.Http.ReadHeaderTimeout)
	assert.Equal(t, preview.LocalPath(executable(t)), cfg.Docs.Root)
	assert.True(t, cfg.Docs.Serial)
	assert.Equal(t, "index.html", cfg.Files.Index)
	assert.Equal(t, "", cfg.Staging.Dir)
	assert.Equal(t, "production", cfg.LogFormat)
}
