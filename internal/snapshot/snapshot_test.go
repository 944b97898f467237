package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yongpei/internal/failure"
	"yongpei/internal/models"
)

const rawCatalog = `{"B":[{"product":"2","a_name":"二"}],"A":[{"product":"1","a_name":"一"}]}`

func testCatalog() *models.Catalog {
	b := models.Category{ID: 1, Name: "B"}
	a := models.Category{ID: 2, Name: "A"}

	return &models.Catalog{
		Categories: []models.Category{b, a},
		Products: []models.Product{
			{ID: 2, VendorID: "2", Name: "二", Images: []string{}, Category: b},
			{ID: 1, VendorID: "1", Name: "一", Images: []string{}, Category: a},
		},
	}
}

func TestSaveAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	details := []*models.Detail{
		{ID: 2, VendorID: "2", AName: "二號", Images: []string{"/2.jpg"}},
		nil,
		{ID: 1, VendorID: "1", AName: "一號"},
	}

	require.NoError(t, Save(dir, []byte(rawCatalog), testCatalog(), details))

	for _, name := range []string{CatalogFile, ProcessedFile, DetailsFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	saved, err := os.ReadFile(filepath.Join(dir, CatalogFile))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(saved), `"B"`), strings.Index(string(saved), `"A"`), "key order must be kept")

	store, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	raw, err := store.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, rawCatalog, string(raw))

	detail, err := store.FetchDetail(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "二號", detail.AName)

	// callers may modify the returned detail
	detail.Images[0] = "changed"

	again, err := store.FetchDetail(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "/2.jpg", again.Images[0])
}

func TestStore_DetailNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, []byte(rawCatalog), testCatalog(), nil))

	store, err := Open(dir)
	require.NoError(t, err)

	_, err = store.FetchDetail(context.Background(), "9")
	assert.ErrorIs(t, err, ErrDetailNotFound)
	assert.Equal(t, failure.KindFetch, failure.Kind(err))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, failure.ErrFilesystem)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), []byte(rawCatalog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DetailsFile), []byte("{broken"), 0644))

	_, err = Open(dir)
	assert.ErrorIs(t, err, failure.ErrDecode)
}

func TestOpen_WithoutDetails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), []byte(rawCatalog), 0644))

	store, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
