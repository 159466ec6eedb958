package settings

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/wardrop-backend/internal/media"
	"github.com/angelmondragon/wardrop-backend/internal/repo/repotest"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/storage/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB, string) {
	t.Helper()
	conn := repotest.Open(t).DB()
	dir := t.TempDir()
	uploads := config.UploadsConfig{Dir: dir, PublicPrefix: "/uploads", MaxFileSizeMB: 1, AllowedExtensions: []string{"png"}, MaxImageDimension: 512}
	store, err := local.New(uploads)
	require.NoError(t, err)
	mediaSvc, err := media.NewService(store, uploads)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), mediaSvc, nil)
	require.NoError(t, err)
	return svc, conn, dir
}

func logo(t *testing.T) media.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return media.Upload{FileName: "logo.png", Data: buf.Bytes()}
}

func onDisk(dir, publicPath string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(publicPath, "/uploads/")))
}

func TestGetCreatesDefaultsOnce(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.LanguageFrench, first.Language)
	assert.Equal(t, "Wardrop", first.BrandName)
	assert.Equal(t, "DZD", first.Currency)
	assert.Nil(t, first.LogoPath)

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Settings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateIsPartialAndValidated(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	brand := " Maison Lina "
	updated, err := svc.Update(ctx, UpdateInput{BrandName: &brand})
	require.NoError(t, err)
	assert.Equal(t, "Maison Lina", updated.BrandName)
	assert.Equal(t, enums.LanguageFrench, updated.Language)

	arabic := enums.LanguageArabic
	updated, err = svc.Update(ctx, UpdateInput{Language: &arabic})
	require.NoError(t, err)
	assert.Equal(t, enums.LanguageArabic, updated.Language)
	assert.Equal(t, "Maison Lina", updated.BrandName)

	klingon := enums.Language("tlh")
	_, err = svc.Update(ctx, UpdateInput{Language: &klingon})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	blank := "  "
	_, err = svc.Update(ctx, UpdateInput{BrandName: &blank})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLogoReplaceAndDelete(t *testing.T) {
	svc, _, dir := newTestService(t)
	ctx := context.Background()

	first, err := svc.UploadLogo(ctx, logo(t))
	require.NoError(t, err)
	require.NotNil(t, first.LogoPath)
	oldPath := *first.LogoPath
	assert.True(t, strings.HasPrefix(oldPath, "/uploads/logos/"))
	_, err = os.Stat(onDisk(dir, oldPath))
	require.NoError(t, err)

	second, err := svc.UploadLogo(ctx, logo(t))
	require.NoError(t, err)
	require.NotNil(t, second.LogoPath)
	assert.NotEqual(t, oldPath, *second.LogoPath)
	_, err = os.Stat(onDisk(dir, oldPath))
	assert.True(t, os.IsNotExist(err))

	cleared, err := svc.DeleteLogo(ctx)
	require.NoError(t, err)
	assert.Nil(t, cleared.LogoPath)
	_, err = os.Stat(onDisk(dir, *second.LogoPath))
	assert.True(t, os.IsNotExist(err))

	again, err := svc.DeleteLogo(ctx)
	require.NoError(t, err)
	assert.Nil(t, again.LogoPath)
}

func TestUploadLogoRejectsBadExtension(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.UploadLogo(context.Background(), media.Upload{FileName: "logo.gif", Data: []byte("GIF89a")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
