package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Food":             "food",
		"Food & Drinks":    "food-drinks",
		"  Rent -- Home  ": "rent-home",
		"Café 2024":        "caf-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCategoryLimit_LastMatchWins(t *testing.T) {
	u := &User{CategoryBudgets: []CategoryBudget{
		{Category: "food", Limit: 50},
		{Category: "rent", Limit: 800},
		{Category: "food", Limit: 70},
	}}

	limit, ok := u.CategoryLimit("food")
	assert.True(t, ok)
	assert.Equal(t, 70.0, limit)

	_, ok = u.CategoryLimit("travel")
	assert.False(t, ok)
}

func TestExpenseSnapshot(t *testing.T) {
	e := &Expense{
		Title:    "Lunch",
		Amount:   12.5,
		Category: "food",
		Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Tags:     []string{"work"},
		UserID:   "u1",
	}
	s := e.Snapshot()
	assert.Equal(t, SnapshotVersion, s.Version)
	assert.Equal(t, "Lunch", s.Title)
	assert.Equal(t, []string{"work"}, s.Tags)

	// 快照与原记录不共享切片
	e.Tags[0] = "changed"
	assert.Equal(t, "work", s.Tags[0])
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.False(t, ValidID("not-a-uuid"))

	u := &User{}
	assert.NoError(t, u.BeforeCreate(nil))
	assert.True(t, ValidID(u.ID))

	keep := &Expense{ID: id}
	assert.NoError(t, keep.BeforeCreate(nil))
	assert.Equal(t, id, keep.ID)
}
