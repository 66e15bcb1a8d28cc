package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitializeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pathPrefix: /notes/\npostCacheTTL: 2m\nadminPassword: from-file\n"), 0o644))
	t.Setenv("ERRORSIGNAL_ADMINPASSWORD", "from-env")

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })
	require.NoError(t, initializeConfig())

	require.Equal(t, "/notes/", appConfig.PathPrefix, "normalised later by errorsignal.New")
	require.Equal(t, 2*time.Minute, appConfig.PostCacheTTL)
	require.Equal(t, "from-env", appConfig.AdminPassword)
	require.Equal(t, ":3000", appConfig.Addr)
	require.Equal(t, "data/blog.db", appConfig.DatabasePath)
}

func TestInitializeConfigMissingExplicitFile(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")
	t.Cleanup(func() { cfgFile = "" })
	require.Error(t, initializeConfig())
}
