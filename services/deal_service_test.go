package services_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/logging"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/storage"
	"github.com/princinho/dealsbackend/testutil"
	"github.com/princinho/dealsbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dealFixture struct {
	*fixture
	store      *testutil.ObjectStore
	deals      *services.DealService
	likes      *services.LikeService
	categories *services.CategoryService
}

func newDealFixture(t *testing.T) *dealFixture {
	f := newFixture(t)
	dealRepo := repositories.NewDealRepository(f.db)
	categoryRepo := repositories.NewCategoryRepository(f.db)
	likeRepo := repositories.NewLikeRepository(f.db)
	store := testutil.NewObjectStore()
	validator := utils.NewFileValidator([]string{".png", ".jpg"}, []string{"image/png", "image/jpeg"}, 1)
	return &dealFixture{
		fixture:    f,
		store:      store,
		deals:      services.NewDealService(dealRepo, categoryRepo, likeRepo, store, validator, logging.Discard()),
		likes:      services.NewLikeService(likeRepo, dealRepo),
		categories: services.NewCategoryService(categoryRepo),
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCreateDealDefaults(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)

	cat, err := f.categories.Create(ctx, "Électronique & Co")
	require.NoError(t, err)
	assert.Equal(t, "electronique-co", cat.Slug)

	d, err := f.deals.Create(ctx, services.DealInput{Title: "TV", Price: 199.5, CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.True(t, d.IsActive)
	require.NotNil(t, d.Category)
	assert.Equal(t, cat.Name, d.Category.Name)

	off, err := f.deals.Create(ctx, services.DealInput{Title: "Radio", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	missing := uint(999)
	_, err = f.deals.Create(ctx, services.DealInput{Title: "x", CategoryID: &missing})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.deals.Create(ctx, services.DealInput{Title: " "})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	active, err := f.deals.List(ctx, repositories.DealFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, d.ID, active[0].ID)
}

func TestUpdateDealPartial(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)

	d, err := f.deals.Create(ctx, services.DealInput{Title: "TV", Description: "big", Price: 100})
	require.NoError(t, err)

	price := 80.0
	updated, err := f.deals.Update(ctx, d.ID, services.DealUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, "big", updated.Description)
	assert.Equal(t, "TV", updated.Title)

	_, err = f.deals.Update(ctx, 999, services.DealUpdate{Price: &price})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, f.deals.Delete(ctx, d.ID))
	assert.ErrorIs(t, f.deals.Delete(ctx, d.ID), apperror.ErrNotFound)
}

func TestDealValidationAndActivation(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	admin := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "admin@x.com", "pw", "admin"))
	manager := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "m@x.com", "pw", "manager"))

	d, err := f.deals.Create(ctx, services.DealInput{Title: "TV", IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = f.deals.SetValidation(ctx, d.ID, "owner", true, admin)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	_, err = f.deals.SetValidation(ctx, d.ID, "admin", true, manager)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.deals.Activate(ctx, d.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	d, err = f.deals.SetValidation(ctx, d.ID, "manager", true, manager)
	require.NoError(t, err)
	assert.True(t, d.IsActive)
	assert.True(t, d.ManagerValidated)

	d, err = f.deals.SetValidation(ctx, d.ID, "manager", false, manager)
	require.NoError(t, err)
	assert.False(t, d.IsActive)

	_, err = f.deals.SetValidation(ctx, d.ID, "manager", true, manager)
	require.NoError(t, err)
	_, err = f.deals.SetValidation(ctx, d.ID, "admin", true, admin)
	require.NoError(t, err)
	d, err = f.deals.Activate(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, d.IsActive)
}

func TestLikesToggleAndCounts(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)

	d1, err := f.deals.Create(ctx, services.DealInput{Title: "A"})
	require.NoError(t, err)
	d2, err := f.deals.Create(ctx, services.DealInput{Title: "B", IsActive: boolPtr(false)})
	require.NoError(t, err)

	state, err := f.likes.Toggle(ctx, 1, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, services.LikeState{Liked: true, Count: 1}, state)
	state, err = f.likes.Toggle(ctx, 2, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.Count)
	state, err = f.likes.Toggle(ctx, 1, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, services.LikeState{Liked: false, Count: 1}, state)

	liked, err := f.likes.HasLiked(ctx, 2, d1.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = f.likes.HasLiked(ctx, 1, d1.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = f.likes.Toggle(ctx, 1, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	all, err := f.deals.ListWithLikeCounts(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	counts := map[uint]int64{}
	for _, d := range all {
		counts[d.ID] = d.LikeCount
	}
	assert.Equal(t, map[uint]int64{d1.ID: 1, d2.ID: 0}, counts)

	active, err := f.deals.ListWithLikeCounts(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, d1.ID, active[0].ID)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestUploadDealImage(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)

	d, err := f.deals.Create(ctx, services.DealInput{Title: "TV"})
	require.NoError(t, err)

	d, err = f.deals.UploadImage(ctx, d.ID, fileHeader(t, "tv.png", pngHeader))
	require.NoError(t, err)
	first := d.ImageURL
	assert.True(t, strings.HasPrefix(first, "https://objects.test/deals/"))
	assert.Len(t, f.store.Objects, 1)

	d, err = f.deals.UploadImage(ctx, d.ID, fileHeader(t, "tv2.png", pngHeader))
	require.NoError(t, err)
	assert.NotEqual(t, first, d.ImageURL)
	assert.Len(t, f.store.Objects, 1)
	oldName, err := f.store.ObjectName(first)
	require.NoError(t, err)
	assert.Equal(t, []string{oldName}, f.store.Deleted)

	_, err = f.deals.UploadImage(ctx, d.ID, fileHeader(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	_, err = f.deals.UploadImage(ctx, d.ID, fileHeader(t, "fake.png", []byte("plain text")))
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	_, err = f.deals.UploadImage(ctx, 999, fileHeader(t, "tv.png", pngHeader))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUploadWithoutStore(t *testing.T) {
	f := newFixture(t)
	svc := services.NewDealService(repositories.NewDealRepository(f.db), repositories.NewCategoryRepository(f.db),
		repositories.NewLikeRepository(f.db), nil, utils.NewFileValidator(nil, nil, 1), logging.Discard())
	_, err := svc.UploadImage(context.Background(), 1, nil)
	assert.Equal(t, apperror.KindInfrastructure, apperror.KindOf(err))
}

var _ storage.ObjectStore = (*testutil.ObjectStore)(nil)
