package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort-backend/models"
	"resort-backend/testutil"
)

func TestOfferingSearch(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormOfferingRepository(db)

	spa := models.Category{Name: "Spa"}
	require.NoError(t, db.Create(&spa).Error)

	names := []string{"Thai Massage", "Hot Stone MASSAGE", "100% Organic Facial", "Foot_Scrub"}
	ids := map[string]uint{}
	for _, n := range names {
		o := &models.Offering{Name: n, CategoryID: spa.ID, Description: "d", Image: "/i.jpg", Price: 10}
		require.NoError(t, repo.Create(ctx, o))
		ids[n] = o.ID
	}

	got, err := repo.IDsMatchingName(ctx, "massage")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ids["Thai Massage"], ids["Hot Stone MASSAGE"]}, got)

	got, err = repo.IDsMatchingName(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []uint{ids["100% Organic Facial"]}, got)

	got, err = repo.IDsMatchingName(ctx, "t_s")
	require.NoError(t, err)
	assert.Equal(t, []uint{ids["Foot_Scrub"]}, got)

	got, err = repo.IDsMatchingName(ctx, "sauna")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	list, err := repo.List(ctx, OfferingFilter{Search: "MASS", CategoryID: &spa.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "Spa", list[0].Category.Name)

	dup, err := repo.FindByNameInCategory(ctx, "thai massage", spa.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, ids["Thai Massage"], dup.ID)

	_, err = repo.FindByNameInCategory(ctx, "thai massage", spa.ID, ids["Thai Massage"])
	assert.ErrorIs(t, err, ErrNotFound)
}
