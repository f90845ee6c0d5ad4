package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expensetracker/errs"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCSV(t *testing.T) {
	out := BuildCSV([]models.Expense{
		{
			Title: "Coffee", Amount: 3.5, Category: "food",
			Date: time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC),
			Tags: []string{"a", "b"}, Note: `say "hi"`,
		},
		{
			Title: "Rent", Amount: 1200, Category: "home",
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	})

	want := "title,amount,category,date,tags,note\n" +
		"Coffee,3.5,food,2024-03-02T08:30:00.000Z,a;b,\"say ''hi''\"\n" +
		"Rent,1200,home,2024-03-01T00:00:00.000Z,,\"\""
	assert.Equal(t, want, string(out))
}

func TestBuildCSV_Empty(t *testing.T) {
	assert.Equal(t, "title,amount,category,date,tags,note", string(BuildCSV(nil)))
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeffTitle, Amount,category\nLunch,12.5,food\nShort\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"title": "Lunch", "amount": "12.5", "category": "food"}, rows[0])
	assert.Equal(t, map[string]string{"title": "Short"}, rows[1])

	rows, err = ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowToInput(t *testing.T) {
	in, err := rowToInput("u1", map[string]string{
		"title": "Taxi", "amount": "20", "category": "travel",
		"date": "2024-02-10T09:00:00Z", "tags": " work ; ;late", "note": "airport",
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, in.Amount)
	assert.Equal(t, []string{"work", "late"}, in.Tags)
	require.NotNil(t, in.Date)
	assert.True(t, in.Date.Equal(time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)))

	in, err = rowToInput("u1", map[string]string{"title": "Taxi", "amount": "20", "date": "2024-02-10"})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", in.Date.Format("2006-01-02"))

	for _, amount := range []string{"twenty", "Infinity", "-Inf", "NaN"} {
		_, err = rowToInput("u1", map[string]string{"title": "Taxi", "amount": amount})
		e, ok := errs.As(err)
		require.True(t, ok, amount)
		assert.Equal(t, "amount", e.Fields[0].Field, amount)
	}

	_, err = rowToInput("u1", map[string]string{"title": "Taxi", "amount": "1", "date": "yesterday"})
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "date", e.Fields[0].Field)
}

const importData = "title,amount,category,date,tags,note\n" +
	"Coffee,3.5,food,2024-03-02T08:30:00Z,morning,\n" +
	"Broken,abc,food,,,\n" +
	"Book,15,fun,,reading;weekend,gift\n"

func TestImport_AbortOnError(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.User{})
	svc := NewExpenseIO(f.pipeline, f.store)

	res, err := svc.Import(context.Background(), u.ID, importData, AbortOnError)
	require.Error(t, err)

	var rowErr *errs.ImportRowFailure
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)

	n, _ := f.store.CountExpenses(context.Background(), store.ExpenseFilter{UserID: u.ID})
	assert.Equal(t, int64(1), n)
}

func TestImport_ContinueOnError(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.User{})
	svc := NewExpenseIO(f.pipeline, f.store)

	res, err := svc.Import(context.Background(), u.ID, importData, ContinueOnError)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Rows, 3)
	assert.NotEmpty(t, res.Rows[0].ExpenseID)
	assert.NotEmpty(t, res.Rows[1].Error)
	assert.Equal(t, 3, res.Rows[2].Row)

	expenses, _ := f.store.ListExpenses(context.Background(), store.ExpenseFilter{UserID: u.ID})
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		audits := f.store.Audits(e.ID)
		require.Len(t, audits, 1)
		assert.Equal(t, models.AuditImported, audits[0].Action)
	}
}

func TestImport_UnknownUser(t *testing.T) {
	f := newFixture()
	svc := NewExpenseIO(f.pipeline, f.store)

	_, err := svc.Import(context.Background(), "bad", importData, AbortOnError)
	assert.True(t, errors.Is(err, errs.ErrInvalidUserID))

	_, err = svc.Import(context.Background(), models.NewID(), importData, ContinueOnError)
	assert.True(t, errors.Is(err, errs.ErrUserNotFound))
}

func TestExport_RoundTrip(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.User{})
	svc := NewExpenseIO(f.pipeline, f.store)

	_, err := svc.Import(context.Background(), u.ID, "title,amount,category,date,tags,note\n"+
		"Older,10,food,2024-03-01T00:00:00Z,a;b,first\n"+
		"Newer,20,fun,2024-03-05T00:00:00Z,,second\n", AbortOnError)
	require.NoError(t, err)

	out, err := svc.Export(context.Background(), u.ID)
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `Newer,20,fun,2024-03-05T00:00:00.000Z,,"second"`, lines[1])
	assert.Equal(t, `Older,10,food,2024-03-01T00:00:00.000Z,a;b,"first"`, lines[2])

	rows, err := ParseCSV(strings.NewReader(string(out)))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "second", rows[0]["note"])
	assert.Equal(t, "a;b", rows[1]["tags"])
}
