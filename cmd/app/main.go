package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fundly/cmd/fx/collectivesfx"
	"fundly/cmd/fx/controllersfx"
	"fundly/cmd/fx/dbfx"
	"fundly/cmd/fx/membersfx"
	"fundly/cmd/fx/notificationsfx"
	"fundly/cmd/fx/ordersfx"
	"fundly/internal/api/controllers"
	"fundly/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	app := fx.New(
		dbfx.Module,
		collectivesfx.Module,
		ordersfx.Module,
		membersfx.Module,
		notificationsfx.Module,
		controllersfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				logger.Info("starting HTTP server", zap.String("port", port))
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	ordersController *controllers.OrdersController,
	collectivesController *controllers.CollectivesController,
	membersController *controllers.MembersController,
	notificationsController *controllers.NotificationsController,
	accountsController *controllers.AccountsController,
	logger *zap.Logger) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.ZapLogger(logger))

	RegisterRoutes(r, ordersController, collectivesController, membersController, notificationsController, accountsController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	ordersController *controllers.OrdersController,
	collectivesController *controllers.CollectivesController,
	membersController *controllers.MembersController,
	notificationsController *controllers.NotificationsController,
	accountsController *controllers.AccountsController) {

	authGroup := r.Group("/auth")
	authGroup.POST("/login", accountsController.LoginHandler)
	authGroup.POST("/signup", accountsController.SignUpHandler)

	collectivesGroup := r.Group("/collectives")
	collectivesGroup.GET("/:slug", collectivesController.GetCollectiveHandler)
	collectivesGroup.GET("/:slug/activities", collectivesController.ListActivitiesHandler)
	collectivesGroup.POST("/:slug/orders", middleware.OptionalAuthMiddleware(), ordersController.CreateOrderHandler)
	collectivesGroup.GET("/:slug/members", middleware.OptionalAuthMiddleware(), membersController.ListMembersHandler)
	collectivesGroup.POST("/:slug/members", middleware.JWTAuthMiddleware(), membersController.CreateMemberHandler)

	notificationsGroup := r.Group("/notifications")
	notificationsGroup.POST("/unsubscribe", middleware.JWTAuthMiddleware(), notificationsController.UnsubscribeHandler)
}
