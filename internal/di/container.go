package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	filterRepo "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/repository"
	filterService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/service"
	responderService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/responder/service"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/keyword-reply-bot/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/keyword-reply-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Service names for dependency injection
const (
	ServiceConfig           = "config"
	ServiceFilterRepo       = "filter-repository"
	ServiceFilterService    = "filter-service"
	ServiceResponderService = "responder-service"
	ServiceTelegramHandler  = "telegram-handler"
	ServiceHTTPServer       = "http-server"
	ServiceBot              = "bot"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Filter Repository
	do.Provide(injector, func(i do.Injector) (filterRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := filterRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize filter repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Filter Service
	do.Provide(injector, func(i do.Injector) (*filterService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[filterRepo.Repository](i)
		return filterService.New(cfg, repo), nil
	})

	// Register Responder Service
	do.Provide(injector, func(i do.Injector) (*responderService.Service, error) {
		repo := do.MustInvoke[filterRepo.Repository](i)
		return responderService.New(repo), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		filterService := do.MustInvoke[*filterService.Service](i)
		responderService := do.MustInvoke[*responderService.Service](i)
		return telegramHandler.New(cfg, filterService, responderService), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		filterService := do.MustInvoke[*filterService.Service](i)
		server := httpServer.New(cfg, filterService)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}
		if cfg.TelegramAPIURL != "" {
			opts = append(opts, bot.WithServerURL(cfg.TelegramAPIURL))
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// The responder sends through the bot; wired here to break the
		// bot -> handler -> responder construction cycle
		responder := do.MustInvoke[*responderService.Service](i)
		responder.SetTransport(telegramHandler.NewSender(b))

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	return nil
}
