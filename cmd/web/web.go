package main

import (
	"context"
	"fmt"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hostel5/portal-be/config"
	"github.com/hostel5/portal-be/controllers"
	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/db/memory"
	"github.com/hostel5/portal-be/db/mysqldb"
	"github.com/hostel5/portal-be/realtime"
	"github.com/hostel5/portal-be/routes"
	"github.com/hostel5/portal-be/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	configureLogging(cfg)

	database, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to the database")
	}
	defer database.Close()

	if err := configureFirebaseCredentials(); err != nil {
		log.Fatal().Err(err).Msg("could not configure firebase credentials")
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize firebase")
	}
	identity, err := services.NewIdentityService(context.Background(), app)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the identity service")
	}

	hub := realtime.NewHub(log.Logger)
	feedController := controllers.NewFeedController(database, hub, log.Logger)
	defer feedController.Stop()
	rosterController := controllers.NewRosterController(database, identity, hub, log.Logger)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.FEOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddChannelRoutes(&r.RouterGroup, database, hub, identity)
	routes.AddPostRoutes(&r.RouterGroup, database, hub, identity)
	routes.AddFeedRoutes(&r.RouterGroup, database, feedController, identity)
	routes.AddUserRoutes(&r.RouterGroup, database, identity)
	routes.AddRosterRoutes(&r.RouterGroup, database, rosterController, identity)
	routes.AddRealtimeRoutes(&r.RouterGroup, database, hub, identity)

	log.Info().Str("port", cfg.Port).Msg("starting web server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("web server exited")
	}
}

func configureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GinMode != gin.ReleaseMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func openDatabase(cfg *config.Config) (appDb.Database, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		// dev mode, state lives for the life of the process
		log.Warn().Msg("using the in-memory database, all data is ephemeral")
		return memory.New(), nil
	default:
		return mysqldb.GetDatabase(cfg)
	}
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Info().Str("path", credentialsPath).Msg("credentials path detected in env")
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Info().Msg("credentials JSON string detected in env")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
