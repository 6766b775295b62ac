// main.go - Entry point for the blog backend server

package main // Declares the package name

import ( // Import required packages
	"context"   // Shutdown deadline
	"errors"    // For comparing server errors
	"log"       // Logging before the leveled logger is ready
	"net/http"  // HTTP server
	"os"        // Exit codes
	"os/signal" // Shutdown signals
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"go-blog-backend/config"   // Project config management
	"go-blog-backend/database" // Database connection and setup
	"go-blog-backend/handlers" // HTTP handlers for API endpoints
	"go-blog-backend/jobs"     // Scheduled maintenance
	"go-blog-backend/logger"   // Leveled logging
	"go-blog-backend/mqtt"     // MQTT client for post events
	"go-blog-backend/services" // Business logic
	"go-blog-backend/storage"  // Uploads folder

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra" // Command line interface
)

func main() { // Main function, program entry point
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "blog",
		Short:        "Blog backend: users, posts and uploads over a JSON API",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
	})
	root.AddCommand(&cobra.Command{
		Use:   "recount",
		Short: "Rebuild every user's post counter from the posts table",
		RunE:  func(cmd *cobra.Command, args []string) error { return recount(cmd.Context()) },
	})
	return root
}

func setup() (*config.Config, *database.Store) {
	// STEP 1: Load configuration and establish connections
	cfg := config.Load() // Load configuration (DB path, JWT secret, uploads, ...)
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	store, err := database.Open(cfg.DBPath, cfg.Debug) // Connect to the database
	if err != nil {
		log.Fatal("DB connection error: ", err) // The only fatal path: no database, no service
	}
	return cfg, store
}

func recount(ctx context.Context) error {
	_, store := setup()
	defer store.Close()

	n, err := store.RecountPosts(ctx)
	if err != nil {
		return err
	}
	logger.Infof("recounted posts for %d users", n)
	return nil
}

func serve() error {
	cfg, store := setup()
	defer store.Close()

	uploads, err := storage.NewUploads(cfg.UploadsDir)
	if err != nil {
		return err
	}

	var events services.EventPublisher // Stays nil without a broker
	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID) // Connect to the MQTT broker
		if err != nil {
			logger.Warning("MQTT connection error, post events disabled: ", err)
		} else {
			defer client.Close()
			events = client
		}
	}

	var scheduler *cron.Cron
	if cfg.RecountCron != "" {
		if scheduler, err = jobs.StartScheduler(cfg.RecountCron, jobs.NewRecountJob(store)); err != nil {
			return err
		}
		defer jobs.StopScheduler(scheduler) // Runs before store.Close
	}

	// STEP 2: Create Gin router and configure routes
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.Deps{
		Auth:       services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL),
		Posts:      services.NewPostService(store, uploads, events),
		Profile:    services.NewProfileService(store, uploads),
		UploadsDir: uploads.Dir,
		CORS:       cfg.CORS,
	})

	// STEP 3: Start the web server and wait for a shutdown signal
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigCh:
		logger.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
