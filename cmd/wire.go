package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	authadapter "github.com/bnema/magicpin/internal/adapters/auth"
	"github.com/bnema/magicpin/internal/adapters/classroom"
	"github.com/bnema/magicpin/internal/adapters/gmail"
	"github.com/bnema/magicpin/internal/adapters/identity"
	modeladapter "github.com/bnema/magicpin/internal/adapters/model"
	"github.com/bnema/magicpin/internal/adapters/render/summary"
	sqliterepo "github.com/bnema/magicpin/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/magicpin/internal/adapters/repo/toml"
	chainstore "github.com/bnema/magicpin/internal/adapters/secrets/chain"
	"github.com/bnema/magicpin/internal/application"
	"github.com/bnema/magicpin/internal/ports"
)

type app struct {
	cfg *viper.Viper
	log *logrus.Logger

	state       ports.StateRepository
	transcripts *sqliterepo.Repository
	tokens      ports.TokenStore

	credentials   *application.CredentialService
	transcriptSvc *application.TranscriptService
	poller        *application.SnippetPoller
	aggregator    *application.Aggregator
	router        *application.Router
	switcher      *application.Switcher

	model *modeladapter.Client
}

func newConfig() *viper.Viper {
	cfg := viper.New()
	cfg.SetEnvPrefix("MAGICPIN")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("log.level", "info")

	cfg.SetDefault("oauth.auth_url", "https://accounts.google.com/o/oauth2/v2/auth")
	cfg.SetDefault("oauth.client_id", "298685355252-moh8cfupug726uu71ddrb1h7bccojahd.apps.googleusercontent.com")
	cfg.SetDefault("oauth.listen", "127.0.0.1:8765")
	cfg.SetDefault("oauth.timeout", 5*time.Minute)
	cfg.SetDefault("oauth.scopes", []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/classroom.courses.readonly",
		"https://www.googleapis.com/auth/classroom.coursework.me.readonly",
		"https://www.googleapis.com/auth/userinfo.email",
	})

	cfg.SetDefault("model.url", "http://localhost:8080/")
	cfg.SetDefault("model.project", "omni-merchant-agent")
	cfg.SetDefault("model.region", "global")
	cfg.SetDefault("model.publisher", "publishers/google")
	cfg.SetDefault("model.name", "gemini-2.0-flash-lite-001")
	cfg.SetDefault("model.rpc", "generateContent")
	cfg.SetDefault("model.temperature", 0.5)
	cfg.SetDefault("model.max_output_tokens", 256)
	cfg.SetDefault("model.top_p", 0.9)

	cfg.SetDefault("poll.interval", 5*time.Minute)
	cfg.SetDefault("agent.listen", "127.0.0.1:8990")
	cfg.SetDefault("proxy.listen", "0.0.0.0:8080")

	return cfg
}

func newLogger(cfg *viper.Viper) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.GetString("log.level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func wireApp() (*app, error) {
	cfg := newConfig()
	log := newLogger(cfg)

	state, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire state repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault("transcripts.path", filepath.Join(homeDir, ".magicpin", "transcripts.db"))
	cfg.SetDefault("secrets.path", filepath.Join(homeDir, ".magicpin", "secrets"))

	transcripts, err := sqliterepo.Open(cfg.GetString("transcripts.path"))
	if err != nil {
		return nil, fmt.Errorf("wire transcript repository: %w", err)
	}

	tokens, err := chainstore.NewKeyringFirstWithFileFallback(cfg.GetString("secrets.path"))
	if err != nil {
		return nil, fmt.Errorf("wire token store chain: %w", err)
	}

	authorizer := &authadapter.BrowserFlow{
		AuthURL:    cfg.GetString("oauth.auth_url"),
		ClientID:   cfg.GetString("oauth.client_id"),
		Scopes:     cfg.GetStringSlice("oauth.scopes"),
		ListenAddr: cfg.GetString("oauth.listen"),
		Timeout:    cfg.GetDuration("oauth.timeout"),
		Output:     os.Stderr,
	}

	model := &modeladapter.Client{
		Config: modeladapter.Config{
			URL:       cfg.GetString("model.url"),
			Project:   cfg.GetString("model.project"),
			Region:    cfg.GetString("model.region"),
			Publisher: cfg.GetString("model.publisher"),
			Model:     cfg.GetString("model.name"),
			RPC:       cfg.GetString("model.rpc"),
			GenerationConfig: modeladapter.GenerationConfig{
				Temperature:     cfg.GetFloat64("model.temperature"),
				MaxOutputTokens: cfg.GetInt("model.max_output_tokens"),
				TopP:            cfg.GetFloat64("model.top_p"),
			},
		},
	}

	credentials := application.NewCredentialService(tokens, state, authorizer)
	transcriptSvc := application.NewTranscriptService(transcripts, state)
	poller := application.NewSnippetPoller(credentials, &gmail.Client{}, state, log)
	aggregator := application.NewAggregator(credentials, &classroom.Client{}, log)
	router := application.NewRouter(transcriptSvc, aggregator, model, summary.Format, log)
	switcher := application.NewSwitcher(authorizer, &identity.Client{}, tokens, state, transcripts, poller, log)

	return &app{
		cfg:           cfg,
		log:           log,
		state:         state,
		transcripts:   transcripts,
		tokens:        tokens,
		credentials:   credentials,
		transcriptSvc: transcriptSvc,
		poller:        poller,
		aggregator:    aggregator,
		router:        router,
		switcher:      switcher,
		model:         model,
	}, nil
}
