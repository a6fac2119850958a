package services_test

import (
	"context"
	"testing"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewLinkService(repositories.NewLinkRepository(f.db))
	validated := true
	validatedOnly := repositories.LinkFilter{Validated: &validated}

	l, err := svc.Create(ctx, services.LinkInput{Title: "Docs", URL: "https://docs.example"})
	require.NoError(t, err)
	assert.False(t, l.Validated)
	_, err = svc.Create(ctx, services.LinkInput{Title: "no url"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	active, err := svc.List(ctx, validatedOnly)
	require.NoError(t, err)
	assert.Empty(t, active)

	l, err = svc.Validate(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, l.Validated)
	active, err = svc.List(ctx, validatedOnly)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	desc := "reference"
	l, err = svc.Update(ctx, l.ID, services.LinkUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Docs", l.Title)
	assert.Equal(t, "reference", l.Description)

	require.NoError(t, svc.Delete(ctx, l.ID))
	_, err = svc.Validate(ctx, l.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
