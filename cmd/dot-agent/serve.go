package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dotlabs/dot-agent/internal/auth"
	"github.com/dotlabs/dot-agent/internal/config"
	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/handlers"
	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/middleware"
	"github.com/dotlabs/dot-agent/internal/notify"
	"github.com/dotlabs/dot-agent/internal/realtime"
	"github.com/dotlabs/dot-agent/internal/repository"
	"github.com/dotlabs/dot-agent/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync agent",
	Long:  `Load the signed-in user's data, keep it synchronized, and serve the local API.`,
	RunE:  runServe,
}

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	log.Info("starting dot-agent",
		logger.String("env", cfg.Server.Env),
		logger.String("webhook_base_url", cfg.Webhook.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(cfg.Webhook.BaseURL, log)
	repos := store.Repositories{
		Users:         repository.NewUserRepository(gw),
		Tasks:         repository.NewTaskRepository(gw),
		Categories:    repository.NewCategoryRepository(gw),
		Subscriptions: repository.NewSubscriptionRepository(gw),
		Chat:          repository.NewChatRepository(gw),
		Assistant:     repository.NewAssistantRepository(gw),
	}

	// The scheduler consults the store's settings for permission, and the
	// store invokes the scheduler on task creation; the closure breaks the
	// construction cycle.
	var st *store.Store
	perms := notify.PermissionsFunc(func(ctx context.Context) (bool, error) {
		if st == nil {
			return true, nil
		}
		if s := st.Settings(); s != nil {
			return s.NotificationsEnabled, nil
		}
		return true, nil
	})
	alerter := notify.AlerterFunc(func(title, message string) {
		log.Warn("user alert", logger.String("title", title), logger.String("message", message))
	})
	sink := notify.SinkFunc(func(n notify.Notification) {
		log.Info("reminder due",
			logger.String("task_id", n.TaskID),
			logger.String("title", n.Title),
			logger.String("body", n.Body),
		)
	})
	scheduler := notify.NewScheduler(perms, alerter, sink, log)
	defer scheduler.Stop()

	provider := auth.NewStaticProvider(cfg.Session.UserID, cfg.Session.Email)
	st = store.New(repos, scheduler, provider, log)
	go st.Run(ctx, provider.Events())

	if cfg.Realtime.URL != "" {
		handler := realtime.SubscriptionHandler(st, log)
		sub := realtime.NewSubscriber(cfg.Realtime.URL, cfg.Session.UserID, handler, log)
		go func() {
			for ctx.Err() == nil {
				if err := sub.Run(ctx); err != nil && ctx.Err() == nil {
					log.Warn("realtime channel dropped, reconnecting", logger.Err(err))
					time.Sleep(5 * time.Second)
				}
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "env": cfg.Server.Env})
	})

	taskHandler := handlers.NewTaskHandler(st)
	categoryHandler := handlers.NewCategoryHandler(st)
	profileHandler := handlers.NewProfileHandler(st)
	chatHandler := handlers.NewChatHandler(st)
	subscriptionHandler := handlers.NewSubscriptionHandler(st)
	stateHandler := handlers.NewStateHandler(st)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", stateHandler.GetState)
		v1.POST("/refresh", stateHandler.Refresh)

		v1.GET("/tasks", taskHandler.GetTasks)
		v1.POST("/tasks", taskHandler.CreateTask)
		v1.PUT("/tasks/:id", taskHandler.UpdateTask)
		v1.DELETE("/tasks/:id", taskHandler.DeleteTask)
		v1.POST("/tasks/:id/complete", taskHandler.CompleteTask)

		v1.GET("/categories", categoryHandler.GetCategories)
		v1.POST("/categories", categoryHandler.CreateCategory)
		v1.PUT("/categories/:id", categoryHandler.UpdateCategory)
		v1.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		v1.GET("/profile", profileHandler.GetProfile)
		v1.PUT("/profile", profileHandler.UpdateProfile)
		v1.GET("/settings", profileHandler.GetSettings)
		v1.PUT("/settings", profileHandler.UpdateSettings)
		v1.GET("/schedule", profileHandler.GetSchedule)
		v1.PUT("/schedule", profileHandler.UpdateSchedule)
		v1.GET("/theme", profileHandler.GetTheme)

		v1.GET("/chat", chatHandler.GetMessages)
		v1.POST("/chat", chatHandler.SendMessage)
		v1.GET("/chat/:id/task", chatHandler.GetMessageTask)

		v1.GET("/subscription", subscriptionHandler.GetSubscription)
		v1.POST("/subscription/checkout", subscriptionHandler.CreateCheckout)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("local API listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("dot-agent stopped")
	return nil
}
