package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/mailer"
)

// app-level container to share constructed components across packages.
// The router wires every module from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient redis.Cmdable

	store      repository.Store
	blobs      application.BlobStore
	jobIndex   application.JobIndex
	dispatcher mailer.Dispatcher
	jwtManager *helpers.JWTManager
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }

// SetPGPool is optional; the memory store runs without a pool.
func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool  { return pgPool }

// SetRedis stores r. A nil *redis.Client is kept as a nil interface so
// that callers can test GetRedis() == nil.
func SetRedis(r *redis.Client) {
	if r == nil {
		redisClient = nil
		return
	}
	redisClient = r
}
func GetRedis() redis.Cmdable { return redisClient }

func SetStore(s repository.Store)        { store = s }
func GetStore() repository.Store         { return store }
func SetBlobs(b application.BlobStore)   { blobs = b }
func GetBlobs() application.BlobStore    { return blobs }
func SetJobIndex(x application.JobIndex) { jobIndex = x }
func GetJobIndex() application.JobIndex  { return jobIndex }
func SetDispatcher(d mailer.Dispatcher)  { dispatcher = d }
func GetDispatcher() mailer.Dispatcher   { return dispatcher }
func SetJWT(m *helpers.JWTManager)       { jwtManager = m }
func GetJWT() *helpers.JWTManager        { return jwtManager }

// Reset clears every singleton. Tests use it between wirings.
func Reset() {
	cfg, logger, pgPool, redisClient = nil, nil, nil, nil
	store, blobs, jobIndex, dispatcher, jwtManager = nil, nil, nil, nil, nil
}
