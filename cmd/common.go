package cmd

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/appconfig"
	awsclient "github.com/usario/creators-services/internal/aws"
	"github.com/usario/creators-services/internal/events"
)

var (
	appCfg *appconfig.Config
	crmDB  *db.CRMDB
)

// commonSetUp sets the log level and loads the config.
func commonSetUp() {
	setLogging(logLevel)
	loadConfig()
}

// connectDB opens the database. Writes are published through notifier.
func connectDB(notifier events.Notifier) {
	var err error
	crmDB, err = db.NewCRMDB(appCfg.Database.Source, notifier, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize CRMDB")
	}
}

func loadConfig() {
	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}
}

// newChangeFeed connects the Pulsar producer. Without a Pulsar URL changes
// are not published.
func newChangeFeed() events.Notifier {
	if appCfg.Pulsar.URL == "" {
		log.Warn().Msg("No Pulsar URL configured, change events will not be published")
		return events.NoopNotifier{}
	}

	publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return publisher
}

// signingSecret returns the JWT secret from JWT_SECRET or, failing that,
// from Secrets Manager.
func signingSecret(ctx context.Context) ([]byte, error) {
	if appCfg.Secrets.JWTSecret != "" {
		return []byte(appCfg.Secrets.JWTSecret), nil
	}
	if appCfg.Auth.SigningSecretName == "" {
		return nil, errors.New("no signing secret: set JWT_SECRET or auth.signingSecretName")
	}

	cfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	secret, err := awsclient.GetSecret(ctx, awsclient.NewSecretsManagerClient(cfg),
		appCfg.Auth.SigningSecretName, appCfg.Auth.SigningSecretKey)
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}
