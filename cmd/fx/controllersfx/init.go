package controllersfx

import (
	"go.uber.org/fx"

	"fundly/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewOrdersController),
	fx.Provide(controllers.NewCollectivesController),
	fx.Provide(controllers.NewMembersController),
	fx.Provide(controllers.NewNotificationsController),
	fx.Provide(controllers.NewAccountsController))
