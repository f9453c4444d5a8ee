package notificationsfx

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/repositories"
	"fundly/internal/services"
	"fundly/pkg/queue"
)

var Module = fx.Provide(
	provideNotificationRepo,
	provideActivityRepo,
	provideMailService,
	provideNotifier,
	provideSubscriberResolver,
	provideNotificationService,
	provideActivityEmitter,
)

func provideNotificationRepo(db *gorm.DB) repositories.NotificationRepositoryInterface {
	return repositories.NewNotificationRepository(db)
}

func provideActivityRepo(db *gorm.DB) repositories.ActivityRepositoryInterface {
	return repositories.NewActivityRepository(db)
}

func provideMailService() (services.MailServiceInterface, error) {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	return services.NewSMTPMailService(services.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   os.Getenv("SMTP_FROM_NAME"),
		UseSSL:     os.Getenv("SMTP_USE_SSL") == "true",
		AppName:    "Fundly",
		AppBaseURL: os.Getenv("APP_BASE_URL"),
	})
}

// provideNotifier prefers the redis-backed queue (drained by the worker
// binary); without REDIS_ADDR deliveries go straight through SMTP.
func provideNotifier(mail services.MailServiceInterface, logger *zap.Logger) services.NotifierInterface {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return services.NewMailNotifier(mail, logger)
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to direct mail", zap.Error(err))
		return services.NewMailNotifier(mail, logger)
	}

	return services.NewQueueNotifier(queue.NewQueue(client, logger), logger)
}

func provideSubscriberResolver(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	memberRepo repositories.MemberRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
) services.SubscriberResolverInterface {
	return services.NewSubscriberResolver(collectiveRepo, memberRepo, notificationRepo)
}

func provideNotificationService(
	notificationRepo repositories.NotificationRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	logger *zap.Logger,
) services.NotificationServiceInterface {
	return services.NewNotificationService(notificationRepo, collectiveRepo, logger)
}

func provideActivityEmitter(
	activityRepo repositories.ActivityRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
	resolver services.SubscriberResolverInterface,
	notifier services.NotifierInterface,
	logger *zap.Logger,
) services.ActivityEmitterInterface {
	return services.NewActivityEmitter(activityRepo, collectiveRepo, notificationRepo, resolver, notifier, logger)
}
