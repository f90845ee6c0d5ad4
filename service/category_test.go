package service

import (
	"context"
	"testing"

	"expensetracker/errs"
	"expensetracker/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	svc := NewCategoryService(store.NewMemoryStore())

	c, err := svc.Create(context.Background(), CategoryInput{Name: "Eating Out", Emoji: "🍜", Color: "#f00"})
	require.NoError(t, err)
	assert.Equal(t, "eating-out", c.Slug)

	_, err = svc.Create(context.Background(), CategoryInput{Name: "eating  out"})
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	_, err = svc.Create(context.Background(), CategoryInput{Name: "!!!"})
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryService_SeedDefaults(t *testing.T) {
	svc := NewCategoryService(store.NewMemoryStore())

	require.NoError(t, svc.SeedDefaults(context.Background()))
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, len(defaultCategories))
	assert.Equal(t, "Entertainment", list[0].Name)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	list, _ = svc.List(context.Background())
	assert.Len(t, list, len(defaultCategories))
}
