package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/application"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	esinfra "github.com/oksasatya/go-account-service/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/go-account-service/internal/infrastructure/gcs"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-account-service/internal/infrastructure/redis"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
)

// Container holds the components constructed at startup. Optional backends
// are nil when their configuration is empty.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *goredis.Client
	ES        *elasticsearch.Client
	GCS       *storage.Client
	RabbitPub *helpers.RabbitPublisher

	Hasher *helpers.Hasher
	JWT    *helpers.JWTManager
	Users  repo.UserRepository
	Assets *gcsinfra.AssetStore

	UserService *application.Service

	closers []func()
}

// New connects every configured backend and assembles the user service.
// On error, whatever was opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	c = &Container{
		Config: cfg,
		Logger: logger,
		Hasher: helpers.NewHasher(cfg.BcryptCost),
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
	}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return c, fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.closers = append(c.closers, pool.Close)
		c.Users = pginfra.NewUserRepository(pool)
	default:
		logger.Warn("using in-memory user storage; data is lost on restart")
		c.Users = memory.NewUserRepository()
	}

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return c, fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = rdb
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		c.Users = redisinfra.NewCachedUserRepository(c.Users, rdb, cfg.UserCacheTTL, logger)
	}

	var indexer application.UserIndexer
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return c, fmt.Errorf("init elasticsearch: %w", err)
		}
		c.ES = es
		indexer = esinfra.NewUserIndex(es, cfg.ESUsersIndex)
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return c, fmt.Errorf("init gcs: %w", err)
		}
		c.GCS = gcs
		c.closers = append(c.closers, func() { _ = gcs.Close() })
		c.Assets = gcsinfra.NewAssetStore(gcs, cfg.GCSBucket, "images")
	}

	var notifier application.VerificationSender
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return c, fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.RabbitPub = pub
		c.closers = append(c.closers, pub.Close)
		notifier = mailer.NewVerificationMailer(pub, cfg.VerifyEmailURL, cfg.AppName, cfg.CompanyName)
	}

	c.UserService = application.NewService(c.Users, c.Hasher, c.JWT, notifier, indexer, logger)
	return c, nil
}

// Close releases backends in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
