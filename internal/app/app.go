// Package app assembles the services from configuration. It is shared by the
// API server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/justsurfingit/jobx/internal/auth"
	"github.com/justsurfingit/jobx/internal/config"
	"github.com/justsurfingit/jobx/internal/database"
	"github.com/justsurfingit/jobx/internal/notify"
	"github.com/justsurfingit/jobx/internal/ratelimit"
	"github.com/justsurfingit/jobx/internal/realtime"
	"github.com/justsurfingit/jobx/internal/render"
	"github.com/justsurfingit/jobx/internal/repository"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

const (
	maxUploadSize = 5 << 20
	mailQueueSize = 256
)

// Container holds the long-lived dependencies of one process.
type Container struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client

	Mail   *notify.Dispatcher
	Hub    *realtime.Hub
	Files  *storage.Local
	Tokens *auth.TokenIssuer

	Auth          *services.AuthService
	Companies     *services.CompanyService
	Postings      *services.PostingService
	Drafts        *services.DraftExtractor
	Applications  *services.ApplicationService
	Chat          *services.ChatService
	CVs           *services.CVService
	Notifications *services.NotificationService
	Sweeper       *services.ExpirySweeper
}

// New connects to postgres (and redis when configured) and builds every
// service. The mail dispatcher is started with ctx.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	db, err := database.Connect(ctx, database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	files, err := storage.NewLocal(cfg.UploadDir, maxUploadSize)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Redis:  openRedis(ctx, cfg.RedisURL, log),
		Hub:    realtime.NewHub(log),
		Files:  files,
		Tokens: auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}
	c.Mail = notify.NewDispatcher(newMailer(ctx, cfg, log), log, mailQueueSize)
	c.Mail.Start(ctx)

	users := repository.NewUserRepository(db)
	companies := repository.NewCompanyRepository(db)
	postings := repository.NewPostingRepository(db)
	applications := repository.NewApplicationRepository(db)
	messages := repository.NewMessageRepository(db)

	c.Notifications = services.NewNotificationService(repository.NewNotificationRepository(db), c.Mail, log)
	c.Auth = services.NewAuthService(users, companies, auth.NewBcryptHasher(), c.Tokens, c.Notifications, log)
	c.Companies = services.NewCompanyService(companies, users, c.Notifications, log)
	c.Postings = services.NewPostingService(postings, companies, cfg.Location, log)
	c.Applications = services.NewApplicationService(applications, postings, c.Notifications, cfg.Location, log)
	c.Chat = services.NewChatService(messages, postings, applications, c.Hub, log)
	c.CVs = services.NewCVService(repository.NewCVRepository(db), newRenderer(cfg, files), files, log)
	c.Sweeper = services.NewExpirySweeper(postings, users, c.Notifications, cfg.Location, log)

	c.Drafts, err = services.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Warn("posting extraction disabled", slog.String("error", err.Error()))
		c.Drafts = services.NewDraftExtractor(nil, log)
	}
	return c, nil
}

// StartBackplane switches the hub to redis pub/sub once the subscription is
// confirmed. The hub keeps local delivery if redis cannot be subscribed.
func (c *Container) StartBackplane(ctx context.Context) {
	if c.Redis == nil {
		return
	}
	backplane := realtime.NewRedisBackplane(c.Redis, c.Log)
	go func() {
		if err := backplane.Run(ctx, c.Hub); err != nil {
			c.Log.Error("realtime backplane stopped", slog.String("error", err.Error()))
		}
	}()
}

// LoginLimiter is shared across instances when redis is configured.
func (c *Container) LoginLimiter() ratelimit.Limiter {
	if c.Config.LoginRateLimit <= 0 {
		return ratelimit.NoopLimiter{}
	}
	if c.Redis != nil {
		return ratelimit.NewRedisLimiter(c.Redis, c.Config.LoginRateLimit, c.Config.LoginRateWindow, "jobx:ratelimit:login")
	}
	return ratelimit.NewMemoryLimiter(c.Config.LoginRateLimit, c.Config.LoginRateWindow)
}

// Close waits for queued mail and closes the connections. The context passed
// to New must be cancelled first.
func (c *Container) Close() {
	c.Mail.Wait()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("redis close failed", slog.String("error", err.Error()))
		}
	}
	if err := database.Close(c.DB); err != nil {
		c.Log.Warn("database close failed", slog.String("error", err.Error()))
	}
}

// openRedis returns nil when redis is not configured or not reachable; the
// process then falls back to in-memory fan-out and rate limiting.
func openRedis(ctx context.Context, url string, log *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid REDIS_URL, running without redis", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, running without redis", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	log.Info("redis connected", slog.String("addr", opts.Addr))
	return client
}

func newMailer(ctx context.Context, cfg *config.Config, log *slog.Logger) notify.Mailer {
	if cfg.GmailCredentialsFile == "" || cfg.GmailTokenFile == "" {
		log.Info("gmail not configured, notices go to the log")
		return notify.NewLogMailer(log)
	}
	mailer, err := gmailMailer(ctx, cfg)
	if err != nil {
		log.Warn("gmail unavailable, notices go to the log", slog.String("error", err.Error()))
		return notify.NewLogMailer(log)
	}
	log.Info("gmail mailer ready")
	return mailer
}

func gmailMailer(ctx context.Context, cfg *config.Config) (*notify.GmailMailer, error) {
	client, err := auth.GmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if err != nil {
		return nil, err
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return notify.NewGmailMailer(svc, cfg.MailFrom), nil
}

func newRenderer(cfg *config.Config, files *storage.Local) render.Renderer {
	if cfg.CVRenderer == "chromedp" {
		return render.NewChromedpRenderer(cfg.ChromePath, files.Dir())
	}
	return render.HTMLRenderer{}
}
