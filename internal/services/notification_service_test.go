package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/internal/testutil"
	"fundly/pkg/utils"
)

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	notifRepo := repositories.NewNotificationRepository(db)
	svc := NewNotificationService(notifRepo, repositories.NewCollectiveRepository(db), zap.NewNop())

	collective := testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)
	user := testutil.SeedUser(t, db, "reader@example.com")

	t.Run("requires a session", func(t *testing.T) {
		err := svc.Unsubscribe(ctx, uuid.Nil, request_models.UnsubscribeRequest{
			CollectiveSlug: "zine",
			Channel:        ChannelBackers,
		})
		require.ErrorIs(t, err, utils.ErrUnauthorized)
	})

	t.Run("requires exactly one axis", func(t *testing.T) {
		err := svc.Unsubscribe(ctx, user.ID, request_models.UnsubscribeRequest{
			CollectiveSlug: "zine",
		})
		require.ErrorIs(t, err, utils.ErrValidationFailed)

		err = svc.Unsubscribe(ctx, user.ID, request_models.UnsubscribeRequest{
			CollectiveSlug: "zine",
			Type:           db_models.ActivityOrderProcessed,
			Channel:        ChannelBackers,
		})
		require.ErrorIs(t, err, utils.ErrValidationFailed)
	})

	t.Run("unknown collective", func(t *testing.T) {
		err := svc.Unsubscribe(ctx, user.ID, request_models.UnsubscribeRequest{
			CollectiveSlug: "nope",
			Channel:        ChannelBackers,
		})
		require.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("repeated unsubscribes converge", func(t *testing.T) {
		req := request_models.UnsubscribeRequest{
			CollectiveSlug: "zine",
			Channel:        ChannelBackers,
		}
		require.NoError(t, svc.Unsubscribe(ctx, user.ID, req))
		require.NoError(t, svc.Unsubscribe(ctx, user.ID, req))

		var rows int64
		require.NoError(t, db.Model(&db_models.Notification{}).
			Where("user_id = ? AND collective_id = ?", user.ID, collective.ID).
			Count(&rows).Error)
		assert.Equal(t, int64(1), rows)

		count, err := svc.ActiveCount(ctx, user.ID, "zine", "", ChannelBackers)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("type axis is independent", func(t *testing.T) {
		require.NoError(t, svc.Unsubscribe(ctx, user.ID, request_models.UnsubscribeRequest{
			CollectiveSlug: "zine",
			Type:           db_models.ActivityOrderProcessed,
		}))

		inactive, err := notifRepo.InactiveUserIDs(ctx, collective.ID, db_models.ActivityOrderProcessed, "")
		require.NoError(t, err)
		assert.True(t, inactive[user.ID])

		// The channel row from the previous subtest is a separate record.
		var rows int64
		require.NoError(t, db.Model(&db_models.Notification{}).
			Where("user_id = ? AND collective_id = ?", user.ID, collective.ID).
			Count(&rows).Error)
		assert.Equal(t, int64(2), rows)
	})
}
