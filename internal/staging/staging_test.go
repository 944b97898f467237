package staging

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yongpei/internal/config"
	"yongpei/internal/failure"
	"yongpei/internal/sitetest"
)

func testSite(t *testing.T) config.SiteConfig {
	t.Helper()

	cfg := config.DefaultConfig().Site
	cfg.Root = t.TempDir()
	cfg.BuildDir = filepath.Join(t.TempDir(), "build")
	sitetest.Write(t, cfg.Root)

	return cfg
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, _ := filepath.Rel(root, path)
		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	require.NoError(t, err)

	sort.Strings(files)

	return files
}

func TestStage_CopiesAssetsAndPages(t *testing.T) {
	cfg := testSite(t)

	result, err := New(cfg, nil).Stage()
	require.NoError(t, err)

	assert.Equal(t, []string{"css", "img", "js", "lib", "scss"}, result.Dirs)
	assert.Equal(t, []string{"about.html", "index.html"}, result.Pages)

	assert.Equal(t, []string{
		"about.html",
		"css/style.css",
		"img/custom/logo.jpg",
		"index.html",
		"js/components.js",
		"js/main.js",
		"lib/wow/wow.min.js",
		"scss/bootstrap.scss",
	}, listFiles(t, cfg.BuildDir))
}

func TestStage_Idempotent(t *testing.T) {
	cfg := testSite(t)
	stager := New(cfg, nil)

	_, err := stager.Stage()
	require.NoError(t, err)

	once := listFiles(t, cfg.BuildDir)

	// leftovers from a previous build must not survive
	require.NoError(t, os.WriteFile(filepath.Join(cfg.BuildDir, "product-99.html"), []byte("old"), 0644))

	_, err = stager.Stage()
	require.NoError(t, err)

	assert.Equal(t, once, listFiles(t, cfg.BuildDir))
}

func TestClean_MissingDirectory(t *testing.T) {
	cfg := testSite(t)
	cfg.BuildDir = filepath.Join(t.TempDir(), "never-created")

	assert.NoError(t, New(cfg, nil).Clean())
}

func TestStage_MissingAssetDir(t *testing.T) {
	cfg := testSite(t)
	cfg.AssetDirs = append(cfg.AssetDirs, "fonts")

	_, err := New(cfg, nil).Stage()
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrFilesystem)
}
