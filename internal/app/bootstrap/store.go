package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/wolfman30/swasthyasathi/cmd/mainconfig"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/internal/records"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

const postgresLockTimeout = 5 * time.Second

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendCSV      = "csv"
	BackendMemory   = "memory"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// ErrRedisUnavailable is returned when the Redis table lock is enabled but
// Redis does not answer.
var ErrRedisUnavailable = errors.New("bootstrap: redis unavailable for table lock")

// TableNames converts the configured dataset names.
func TableNames(cfg *appconfig.Config) records.Names {
	return records.Names{
		Patients:   cfg.Tables.Patients,
		Beds:       cfg.Tables.Beds,
		Doctors:    cfg.Tables.Doctors,
		Medicines:  cfg.Tables.Medicines,
		Discharged: cfg.Tables.Discharged,
	}
}

// BuildStore opens the configured backend, adds the optional Redis lock and
// wraps the result with tracing. The returned func releases connections.
func BuildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.AssistantMetrics) (records.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers cleanups
	store, err := buildBackend(ctx, cfg, logger, &closers)
	if err != nil {
		closers.run()
		return nil, nil, err
	}

	if cfg.TableLockRedis {
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			closers.run()
			return nil, nil, ErrRedisUnavailable
		}
		closers.add(func() { _ = client.Close() })
		store = records.NewLockingStore(store, client, cfg.TableLockTTL)
		logger.Info("redis table lock enabled", "addr", cfg.RedisAddr, "ttl", cfg.TableLockTTL.String())
	}

	return records.NewTracedStore(store, otel.Tracer("swasthyasathi.internal.records"), m), closers.run, nil
}

func buildBackend(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, closers *cleanups) (records.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	switch backend {
	case "", BackendCSV:
		logger.Info("using csv table store", "dir", cfg.DataDir)
		return records.NewCSVStore(cfg.DataDir), nil

	case BackendMemory:
		logger.Warn("using in-memory table store; writes are lost on exit")
		return records.NewMemoryStore(), nil

	case BackendS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("bootstrap: S3_BUCKET is required for the s3 backend")
		}
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		logger.Info("using s3 table store", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return records.NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix, logger.Logger), nil

	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: open postgres pool: %w", err)
		}
		closers.add(pool.Close)
		logger.Info("using postgres table store")
		return records.NewPostgresStore(pool, postgresLockTimeout), nil

	case BackendDynamoDB:
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		logger.Info("using dynamodb table store", "table", cfg.DynamoTablesTable)
		return records.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTablesTable), nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown storage backend %q", cfg.StorageBackend)
	}
}
