package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteAppendAndRead(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	captured := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	listings := []models.Listing{
		{
			Designation:   models.Some("Data Scientist"),
			PageLink:      models.Some("https://www.indeed.com/rc/clk?jk=1"),
			Company:       models.Some("Acme"),
			Location:      models.Some("Austin, TX"),
			TimeCaptured:  captured,
			QueryTitle:    "data scientist",
			QueryLocation: "Texas",
			Page:          1,
		},
		{Company: models.Some(""), TimeCaptured: captured.Add(time.Second), Page: 2},
	}

	ctx := context.Background()
	require.NoError(t, db.Append(ctx, "run-1", listings))
	require.NoError(t, db.Append(ctx, "run-2", listings[:1]))

	got, err := db.Listings(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].SameContent(listings[0]))
	assert.True(t, got[0].TimeCaptured.Equal(captured))
	assert.Equal(t, "Texas", got[0].QueryLocation)

	assert.Nil(t, got[1].Designation)
	assert.Nil(t, got[1].Location)
	require.NotNil(t, got[1].Company)
	assert.Equal(t, "", *got[1].Company)
	assert.Equal(t, 2, got[1].Page)

	other, err := db.Listings(ctx, "run-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestSQLiteAppendEmptyIsNoop(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Append(context.Background(), "run", nil))
	got, err := db.Listings(context.Background(), "run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
