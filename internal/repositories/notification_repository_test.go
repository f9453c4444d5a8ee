package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundly/internal/models/db_models"
	"fundly/internal/testutil"
)

func TestSetInactiveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	repo := NewNotificationRepository(db)
	collective := testutil.SeedCollective(t, db, "gazette", db_models.CollectiveKindCollective)
	user := testutil.SeedUser(t, db, "subscriber@example.com")

	require.NoError(t, repo.SetInactive(ctx, user.ID, collective.ID, "", "backers"))
	require.NoError(t, repo.SetInactive(ctx, user.ID, collective.ID, "", "backers"))
	require.NoError(t, repo.SetInactive(ctx, user.ID, collective.ID, "", "backers"))

	var rows int64
	require.NoError(t, db.Model(&db_models.Notification{}).
		Where("user_id = ? AND collective_id = ?", user.ID, collective.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	inactive, err := repo.InactiveUserIDs(ctx, collective.ID, "", "backers")
	require.NoError(t, err)
	assert.True(t, inactive[user.ID])
}

func TestInactiveUserIDsScoping(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	repo := NewNotificationRepository(db)
	gazette := testutil.SeedCollective(t, db, "gazette", db_models.CollectiveKindCollective)
	tribune := testutil.SeedCollective(t, db, "tribune", db_models.CollectiveKindCollective)
	user := testutil.SeedUser(t, db, "reader@example.com")

	require.NoError(t, repo.SetInactive(ctx, user.ID, gazette.ID, "", "backers"))

	// Same user, different collective: still subscribed.
	inactive, err := repo.InactiveUserIDs(ctx, tribune.ID, "", "backers")
	require.NoError(t, err)
	assert.False(t, inactive[user.ID])

	// Same collective, different channel: still subscribed.
	inactive, err = repo.InactiveUserIDs(ctx, gazette.ID, "", "followers")
	require.NoError(t, err)
	assert.False(t, inactive[user.ID])

	// The channel axis does not bleed into the type axis.
	inactive, err = repo.InactiveUserIDs(ctx, gazette.ID, db_models.ActivityOrderProcessed, "")
	require.NoError(t, err)
	assert.False(t, inactive[user.ID])
}

func TestActiveCount(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	repo := NewNotificationRepository(db)
	collective := testutil.SeedCollective(t, db, "gazette", db_models.CollectiveKindCollective)
	user := testutil.SeedUser(t, db, "counter@example.com")

	// Default-on means no row, so nothing counts as an active override.
	count, err := repo.ActiveCount(ctx, user.ID, collective.ID, "", "backers")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.SetInactive(ctx, user.ID, collective.ID, "", "backers"))
	count, err = repo.ActiveCount(ctx, user.ID, collective.ID, "", "backers")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
