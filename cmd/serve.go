package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/usario/creators-services/api/handlers"
	"github.com/usario/creators-services/api/middleware"
	"github.com/usario/creators-services/api/services"
	docs "github.com/usario/creators-services/docs"
	"github.com/usario/creators-services/internal/archive"
	awsclient "github.com/usario/creators-services/internal/aws"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/internal/notify"
	"github.com/usario/creators-services/internal/sessions"
	"github.com/usario/creators-services/models"
	"golang.org/x/sync/errgroup"

	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 15 * time.Second

// @title Creators Services API
// @version v1
// @description This is the API behind the team, admin and client portals.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		connectDB(newChangeFeed())
		defer crmDB.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		secret, err := signingSecret(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load token signing secret")
		}

		service := &services.Service{
			Config: appCfg,
			DB:     crmDB,
			Tokens: authn.NewTokenIssuer(secret, appCfg.Auth.Issuer,
				appCfg.Auth.AccessTokenTTL, appCfg.Auth.RefreshTokenTTL),
		}

		if appCfg.Redis.Addr != "" {
			store := sessions.NewRevocationStore(redis.NewClient(&redis.Options{
				Addr:     appCfg.Redis.Addr,
				Password: appCfg.Secrets.RedisPassword,
				DB:       appCfg.Redis.DB,
			}), appCfg.Redis.KeyPrefix)
			defer store.Close()

			if err := store.Ping(ctx); err != nil {
				log.Fatal().Err(err).Str("addr", appCfg.Redis.Addr).Msg("Failed to connect to Redis")
			}
			service.Sessions = store
		} else {
			log.Warn().Msg("No Redis address configured, signed out tokens stay valid until they expire")
		}

		initializeAWSServices(ctx, service)

		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           newRouter(service),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("could not start server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			log.Info().Msg("Shutting down server")
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("Server stopped with error")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// initializeAWSServices wires the submission mailer and the export archive
// when they are configured.
func initializeAWSServices(ctx context.Context, service *services.Service) {
	notifications := appCfg.Notifications
	mailer := notifications.ServiceAccountEmail != "" && len(notifications.AdminEmails) > 0
	exports := appCfg.AWS.Exports.Bucket != ""
	if !mailer && !exports {
		log.Warn().Msg("No SES sender or exports bucket configured, AWS services disabled")
		return
	}

	awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	if mailer {
		service.Notifier = notify.NewMailer(awsclient.NewSESClient(awsCfg),
			notifications.ServiceAccountEmail, notifications.AdminEmails)
		log.Info().Strs("admins", notifications.AdminEmails).Msg("Submission notifications enabled")
	}
	if exports {
		service.Archive = archive.NewArchiver(awsclient.NewS3Client(awsCfg),
			appCfg.AWS.Exports.Bucket, appCfg.AWS.Exports.Prefix)
		log.Info().Str("bucket", appCfg.AWS.Exports.Bucket).Msg("Export archive enabled")
	}
}

// newRouter registers the API, its docs and the middleware chain.
func newRouter(service *services.Service) http.Handler {
	cfg := service.Config
	r := mux.NewRouter()

	api := r.PathPrefix(cfg.BasePath).Subrouter()
	api.Use(middleware.WithLogger)

	jwt := middleware.JWTMiddleware(service.Tokens, service.Sessions)
	currentUser := middleware.CurrentUser(service.DB)
	authed := func(h http.HandlerFunc, roles ...string) http.Handler {
		var handler http.Handler = h
		if len(roles) > 0 {
			handler = middleware.RequireRole(roles...)(handler)
		}
		return jwt(currentUser(handler))
	}
	admin := models.RoleAdmin
	team := []string{models.RoleAdmin, models.RoleVA}

	// Public routes
	api.HandleFunc("/test", handlers.Test(service)).Methods(http.MethodGet)
	api.HandleFunc("/auth/signup", handlers.Signup(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", handlers.Signin(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", handlers.Refresh(service)).Methods(http.MethodPost)

	// Session routes
	api.Handle("/auth/signout", authed(handlers.Signout(service))).Methods(http.MethodPost)
	api.Handle("/auth/user", authed(handlers.CurrentUser(service))).Methods(http.MethodGet)

	// Client routes
	api.Handle("/clients", authed(handlers.GetClients(service))).Methods(http.MethodGet)
	api.Handle("/clients", authed(handlers.CreateClient(service), admin)).Methods(http.MethodPost)
	api.Handle("/clients/{client-id}", authed(handlers.GetClient(service))).Methods(http.MethodGet)
	api.Handle("/clients/{client-id}", authed(handlers.UpdateClient(service), admin)).Methods(http.MethodPut)
	api.Handle("/clients/{client-id}", authed(handlers.DeleteClient(service), admin)).Methods(http.MethodDelete)
	api.Handle("/clients/{client-id}/users", authed(handlers.GetClientTeam(service), admin)).Methods(http.MethodGet)
	api.Handle("/clients/{client-id}/stats", authed(handlers.GetClientStats(service))).Methods(http.MethodGet)
	api.Handle("/stats/overview", authed(handlers.GetOverviewStats(service), admin)).Methods(http.MethodGet)

	// User management routes
	api.Handle("/users", authed(handlers.GetUsers(service), admin)).Methods(http.MethodGet)
	api.Handle("/users", authed(handlers.CreateUser(service), admin)).Methods(http.MethodPost)
	api.Handle("/users/{user-id}", authed(handlers.GetUser(service))).Methods(http.MethodGet)
	api.Handle("/users/{user-id}", authed(handlers.UpdateUser(service), admin)).Methods(http.MethodPut)
	api.Handle("/users/{user-id}", authed(handlers.DeleteUser(service), admin)).Methods(http.MethodDelete)
	api.Handle("/users/{user-id}/clients", authed(handlers.GetUserClients(service))).Methods(http.MethodGet)
	api.Handle("/users/{user-id}/clients", authed(handlers.AssignClient(service), admin)).Methods(http.MethodPost)
	api.Handle("/users/{user-id}/clients/{client-id}", authed(handlers.UnassignClient(service), admin)).Methods(http.MethodDelete)

	// Influencer routes
	api.Handle("/influencers", authed(handlers.GetInfluencers(service))).Methods(http.MethodGet)
	api.Handle("/influencers", authed(handlers.CreateInfluencer(service), team...)).Methods(http.MethodPost)
	api.Handle("/influencers/import", authed(handlers.ImportInfluencers(service), team...)).Methods(http.MethodPost)
	api.Handle("/influencers/export", authed(handlers.ExportInfluencers(service), admin)).Methods(http.MethodGet)
	api.Handle("/influencers/{influencer-id:[0-9]+}", authed(handlers.GetInfluencer(service))).Methods(http.MethodGet)
	api.Handle("/influencers/{influencer-id:[0-9]+}", authed(handlers.UpdateInfluencer(service), team...)).Methods(http.MethodPut)
	api.Handle("/influencers/{influencer-id:[0-9]+}", authed(handlers.DeleteInfluencer(service), team...)).Methods(http.MethodDelete)

	// Submission routes
	api.Handle("/submissions", authed(handlers.GetSubmissions(service), team...)).Methods(http.MethodGet)
	api.Handle("/submissions", authed(handlers.CreateSubmission(service), team...)).Methods(http.MethodPost)
	api.Handle("/submissions/today", authed(handlers.SubmitToday(service), team...)).Methods(http.MethodPost)
	api.Handle("/submissions/history", authed(handlers.GetSubmissionHistory(service), team...)).Methods(http.MethodGet)
	api.Handle("/submissions/{submission-id:[0-9]+}", authed(handlers.GetSubmission(service), team...)).Methods(http.MethodGet)

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return middleware.CORS(cfg.CORS.AllowedOrigins)(r)
}
