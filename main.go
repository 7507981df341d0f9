package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexcitas/config"
	"lexcitas/cron"
	"lexcitas/database"
	appointmentRepo "lexcitas/database/repository/appointment"
	clientRepo "lexcitas/database/repository/client"
	legalcaseRepo "lexcitas/database/repository/legalcase"
	"lexcitas/handlers"
	"lexcitas/routes"
	"lexcitas/services/availability"
	"lexcitas/services/calendarfeed"
	"lexcitas/services/conversation"
	"lexcitas/services/documents"
	"lexcitas/services/nlp"
	"lexcitas/services/notification"
	"lexcitas/services/session"
	"lexcitas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	location, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", config.AppConfig.Timezone), zap.Error(err))
	}

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(utils.GetSessionCacheClient(), utils.GetTokenCacheClient(), database.MongoClient)

	appointments := appointmentRepo.NewMongoAppointmentRepo()
	clients := clientRepo.NewMongoClientRepo()
	cases := legalcaseRepo.NewMongoLegalCaseRepo()

	feed := buildCalendarFeed(location, logger)

	availSvc := &availability.DefaultAvailabilityService{
		Appointments: appointments,
		Feed:         feed,
		Location:     location,
	}

	notifier := &notification.DefaultNotificationService{
		Email: notification.NewSMTPEmailSender(),
		SMS:   notification.NewHTTPSMSSender(),
	}

	tokenSvc := documents.NewDefaultTokenService(utils.GetTokenCacheClient())

	reminders := cron.NewScheduler(location)
	cron.InitReminderWorker(appointments, notifier)

	convSvc := &conversation.DefaultConversationService{
		Sessions:     session.NewRedisStore(utils.GetSessionCacheClient()),
		Classifier:   nlp.NewRuleClassifier(),
		Availability: availSvc,
		Appointments: appointments,
		Clients:      clients,
		Cases:        cases,
		Notifier:     notifier,
		Tokens:       tokenSvc,
		Reminders:    reminders,
		Location:     location,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(utils.ErrorHandler())

	hb := &handlers.HandlerBundle{
		ChatHandler:                handlers.ChatHandler(convSvc),
		AvailableSlotsHandler:      handlers.AvailableSlotsHandler(availSvc),
		NextAvailableHandler:       handlers.NextAvailableHandler(availSvc),
		ValidateUploadTokenHandler: handlers.ValidateUploadTokenHandler(tokenSvc),
		ConsumeUploadTokenHandler:  handlers.ConsumeUploadTokenHandler(tokenSvc),
		ReconcileHandler:           handlers.ReconcileHandler(availSvc),
	}
	routes.RegisterRoutes(r, hb)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

// buildCalendarFeed constructs the Google Calendar feed. A failure (missing
// credentials, expired token) does not abort startup: the service runs with
// an unavailable feed and the availability layer degrades accordingly.
func buildCalendarFeed(location *time.Location, logger *zap.Logger) calendarfeed.Feed {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	feed, err := calendarfeed.NewGoogleFeed(ctx,
		config.AppConfig.CalendarCredentialsFile,
		config.AppConfig.CalendarTokenFile,
		config.AppConfig.CalendarID,
		location)
	if err != nil {
		logger.Error("calendar feed unavailable, starting degraded", zap.Error(err))
		return calendarfeed.Unavailable(err.Error())
	}
	return feed
}
