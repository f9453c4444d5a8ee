package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/internal/testutil"
	"fundly/pkg/utils"
)

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	svc := NewAccountService(repositories.NewUserRepository(db), zap.NewNop())

	require.NoError(t, svc.CreateAccount(ctx, request_models.SignUpRequest{
		Email:       "Maintainer@Example.com",
		Password:    "correct horse",
		DisplayName: "Maintainer",
	}))

	// Emails are normalized; signup created the personal collective too.
	var user db_models.User
	require.NoError(t, db.First(&user, "email = ?", "maintainer@example.com").Error)
	var personal db_models.Collective
	require.NoError(t, db.First(&personal, "id = ?", user.CollectiveID).Error)
	assert.Equal(t, db_models.CollectiveKindPerson, personal.Kind)

	err := svc.CreateAccount(ctx, request_models.SignUpRequest{
		Email:       "maintainer@example.com",
		Password:    "another pass",
		DisplayName: "Dup",
	})
	require.ErrorIs(t, err, utils.ErrValidationFailed)

	token, err := svc.Login(ctx, request_models.LoginRequest{
		Email:    "maintainer@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(ctx, request_models.LoginRequest{
		Email:    "maintainer@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Login(ctx, request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, utils.ErrUnauthorized)
}
