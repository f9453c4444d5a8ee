package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundly/internal/models/db_models"
	"fundly/internal/testutil"
)

func TestCreateWithReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes capacity up to the limit", func(t *testing.T) {
		db := testutil.OpenTestDB(t)
		repo := NewOrderRepository(db)
		collective := testutil.SeedCollective(t, db, "climate-fund", db_models.CollectiveKindCollective)
		tier := testutil.SeedTier(t, db, collective, "Supporter", db_models.TierKindTier, 500, 3)
		backer := testutil.SeedUser(t, db, "backer@example.com")

		for i := 0; i < 3; i++ {
			order := &db_models.Order{
				CollectiveID:     collective.ID,
				FromCollectiveID: backer.CollectiveID,
				CreatedByUserID:  backer.ID,
				TierID:           &tier.ID,
				Quantity:         1,
				TotalAmountMinor: 500,
				Currency:         "USD",
			}
			require.NoError(t, repo.CreateWithReservation(ctx, order, tier))
		}

		order := &db_models.Order{
			CollectiveID:     collective.ID,
			FromCollectiveID: backer.CollectiveID,
			CreatedByUserID:  backer.ID,
			TierID:           &tier.ID,
			Quantity:         1,
			TotalAmountMinor: 500,
			Currency:         "USD",
		}
		err := repo.CreateWithReservation(ctx, order, tier)
		require.ErrorIs(t, err, ErrInsufficientCapacity)

		// The failed reservation must leave no order row behind.
		var orders int64
		require.NoError(t, db.Model(&db_models.Order{}).Count(&orders).Error)
		assert.Equal(t, int64(3), orders)

		var fresh db_models.Tier
		require.NoError(t, db.First(&fresh, "id = ?", tier.ID).Error)
		assert.Equal(t, int64(3), fresh.QuantitySold)
	})

	t.Run("rejects a multi-quantity order that overshoots", func(t *testing.T) {
		db := testutil.OpenTestDB(t)
		repo := NewOrderRepository(db)
		collective := testutil.SeedCollective(t, db, "meetup", db_models.CollectiveKindCollective)
		tier := testutil.SeedTier(t, db, collective, "Ticket", db_models.TierKindTicket, 0, 5)
		backer := testutil.SeedUser(t, db, "group@example.com")

		first := &db_models.Order{
			CollectiveID:     collective.ID,
			FromCollectiveID: backer.CollectiveID,
			CreatedByUserID:  backer.ID,
			TierID:           &tier.ID,
			Quantity:         4,
		}
		require.NoError(t, repo.CreateWithReservation(ctx, first, tier))

		second := &db_models.Order{
			CollectiveID:     collective.ID,
			FromCollectiveID: backer.CollectiveID,
			CreatedByUserID:  backer.ID,
			TierID:           &tier.ID,
			Quantity:         2,
		}
		require.ErrorIs(t, repo.CreateWithReservation(ctx, second, tier), ErrInsufficientCapacity)

		// A smaller order still fits in the remaining slot.
		third := &db_models.Order{
			CollectiveID:     collective.ID,
			FromCollectiveID: backer.CollectiveID,
			CreatedByUserID:  backer.ID,
			TierID:           &tier.ID,
			Quantity:         1,
		}
		require.NoError(t, repo.CreateWithReservation(ctx, third, tier))
	})

	t.Run("unlimited tier never refuses", func(t *testing.T) {
		db := testutil.OpenTestDB(t)
		repo := NewOrderRepository(db)
		collective := testutil.SeedCollective(t, db, "open-source", db_models.CollectiveKindCollective)
		tier := testutil.SeedTier(t, db, collective, "Donation", db_models.TierKindTier, 100, 0)
		backer := testutil.SeedUser(t, db, "donor@example.com")

		for i := 0; i < 10; i++ {
			order := &db_models.Order{
				CollectiveID:     collective.ID,
				FromCollectiveID: backer.CollectiveID,
				CreatedByUserID:  backer.ID,
				TierID:           &tier.ID,
				Quantity:         100,
				TotalAmountMinor: 100,
			}
			require.NoError(t, repo.CreateWithReservation(ctx, order, tier))
		}
	})
}

func TestReleaseAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	repo := NewOrderRepository(db)
	collective := testutil.SeedCollective(t, db, "workshop", db_models.CollectiveKindCollective)
	tier := testutil.SeedTier(t, db, collective, "Seat", db_models.TierKindTicket, 1500, 10)
	backer := testutil.SeedUser(t, db, "attendee@example.com")

	order := &db_models.Order{
		CollectiveID:     collective.ID,
		FromCollectiveID: backer.CollectiveID,
		CreatedByUserID:  backer.ID,
		TierID:           &tier.ID,
		Quantity:         2,
		TotalAmountMinor: 3000,
	}
	require.NoError(t, repo.CreateWithReservation(ctx, order, tier))

	require.NoError(t, repo.ReleaseAndDelete(ctx, order))

	var fresh db_models.Tier
	require.NoError(t, db.First(&fresh, "id = ?", tier.ID).Error)
	assert.Equal(t, int64(0), fresh.QuantitySold)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMarkProcessed(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	repo := NewOrderRepository(db)
	collective := testutil.SeedCollective(t, db, "newsletter", db_models.CollectiveKindCollective)
	backer := testutil.SeedUser(t, db, "reader@example.com")

	order := &db_models.Order{
		CollectiveID:     collective.ID,
		FromCollectiveID: backer.CollectiveID,
		CreatedByUserID:  backer.ID,
		TotalAmountMinor: 900,
		Currency:         "USD",
	}
	require.NoError(t, repo.Create(ctx, order))
	assert.False(t, order.IsProcessed())

	order.ProviderTxnID = "txn_123"
	require.NoError(t, repo.MarkProcessed(ctx, order, 1700000000, nil))
	assert.True(t, order.IsProcessed())

	fresh, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	require.NotNil(t, fresh.ProcessedAt)
	assert.Equal(t, int64(1700000000), *fresh.ProcessedAt)
	assert.Equal(t, "txn_123", fresh.ProviderTxnID)
}
