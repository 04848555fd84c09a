package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/mailservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
}

func main() {
	configPath := flag.String("config", ".env", "path to the dotenv configuration file")
	migrations := flag.String("migrations", "file://migrations", "golang-migrate source of the schema")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dsn := common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := common.NewDB(dsn, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	m, err := common.MigrateUp(*migrations, dsn)
	if err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	m.Close()

	tokens, err := userservice.NewTokenIssuer(cfg.SecretAccessKey)
	if err != nil {
		logger.Error("failed to create the token issuer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	verifier, err := userservice.NewGoogleVerifier(context.Background(), cfg.GoogleClientID)
	if err != nil {
		logger.Error("failed to create the google verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cache common.Cache = common.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rdb, err := common.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()

		cache = common.NewRedisCache(rdb, cfg.CacheTTL)
	}

	userModel := userservice.NewUserModel(db)
	userCfg := userservice.Config{
		Model:              userModel,
		Tokens:             tokens,
		Verifier:           verifier,
		Logger:             logger,
		LinkGoogleAccounts: cfg.LinkGoogleAccounts,
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		blogService: blogservice.NewBlogService(blogservice.NewBlogModel(db, userModel), cache, logger),
	}

	if cfg.brokerEnabled() {
		broker, err := common.NewMessageBroker(cfg.rabbitURI())
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		err = common.SetupUserExchange(broker)
		if err != nil {
			logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		userCfg.Broker = broker

		if cfg.mailEnabled() {
			app.mailService = mailservice.NewMailService(broker, mailservice.Config{
				Host:     cfg.MailHost,
				Port:     cfg.MailPort,
				Username: cfg.MailUser,
				Password: cfg.MailPassword,
				Sender:   cfg.MailSender,
			}, logger)

			err = app.mailService.SendWelcomeEmail()
			if err != nil {
				logger.Error("failed to start the welcome mail consumer", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	app.userService = userservice.NewUserService(userCfg)

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
