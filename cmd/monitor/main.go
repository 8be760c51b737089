package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/guardian/secure-contact/internal/config"
	"github.com/guardian/secure-contact/internal/history/dynamo"
	"github.com/guardian/secure-contact/internal/logging"
	"github.com/guardian/secure-contact/internal/monitor"
	"github.com/guardian/secure-contact/internal/notify"
	"github.com/guardian/secure-contact/internal/pages"
	"github.com/guardian/secure-contact/internal/paramstore"
	"github.com/guardian/secure-contact/internal/probe"
	"github.com/guardian/secure-contact/internal/publish"
)

const stageFile = "/etc/stage"

func main() {
	ctx := context.Background()

	config.LoadDotEnv()
	cfg := config.FromEnv(config.Stage(stageFile))

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	logger.Info("monitor_start",
		zap.String("stage", cfg.Stage),
		zap.String("profile", cfg.Profile),
	)

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Fatal("aws_config_failed", zap.Error(err))
	}

	// Missing configuration is fatal: the run must not proceed to probe or
	// publish without it.
	params := paramstore.NewSSM(ssm.NewFromConfig(awsCfg))
	if err := cfg.LoadParameters(ctx, params); err != nil {
		logger.Fatal("config_load_failed", zap.Error(err))
	}

	if err := pages.Build(cfg.BuildDir, cfg.SecureDropURL, cfg.Stage); err != nil {
		logger.Fatal("page_build_failed", zap.Error(err))
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
	if cfg.Stage == config.DefaultStage {
		// AWS stages get the table from CloudFormation; DEV bootstraps the
		// local DynamoDB on demand.
		if err := dynamo.EnsureTable(ctx, dynamoClient, cfg.TableName); err != nil {
			logger.Fatal("table_bootstrap_failed", zap.Error(err))
		}
		if err := dynamo.EnsureTTL(ctx, dynamoClient, cfg.TableName); err != nil {
			logger.Fatal("ttl_bootstrap_failed", zap.Error(err))
		}
	}
	store := dynamo.New(dynamoClient, cfg.TableName)

	checker, err := probe.NewTorChecker(cfg.SocksAddr)
	if err != nil {
		logger.Fatal("probe_setup_failed", zap.Error(err))
	}

	publisher := publish.NewS3Publisher(s3.NewFromConfig(awsCfg), cfg.BucketName, logger)
	chat := notify.NewChat(cfg.WebhookURL, logger)
	mailer := notify.NewEmail(ses.NewFromConfig(awsCfg), cfg.EmailSender, cfg.EmailRecipient, logger)

	// Push the freshly rendered variants so the website-config flip always
	// has both targets in place. Upload failure is logged, not fatal.
	for _, name := range []string{"index.html", "maintenance.html"} {
		body, err := os.ReadFile(filepath.Join(cfg.BuildDir, name))
		if err != nil {
			logger.Fatal("page_read_failed", zap.String("page", name), zap.Error(err))
		}
		if err := publisher.UploadPage(ctx, name, body); err != nil {
			logger.Warn("page_upload_failed", zap.String("page", name), zap.Error(err))
		}
	}

	runner := monitor.NewRunner(logger, checker, store, publisher, chat, mailer)
	runner.MaxAttempts = cfg.Attempts
	runner.Backoff = cfg.Backoff
	runner.WindowSeconds = cfg.WindowSeconds
	runner.RecentLimit = cfg.RecentLimit

	report, err := runner.Run(ctx, "http://"+cfg.SecureDropURL)
	if err != nil {
		logger.Error("run_completed_with_errors", zap.Error(err))
	}
	logger.Info("monitor_done",
		zap.Bool("healthy", report.Healthy),
		zap.Int("attempts", report.Attempts),
		zap.Bool("state_changed", report.Changed),
	)
	// Healthy or not, the process exits 0; cadence and escalation on repeat
	// failures belong to the scheduler and the alert channels.
}
