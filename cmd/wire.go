package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/bnema/payment-holds/internal/adapters/holds/httpclient"
	"github.com/bnema/payment-holds/internal/adapters/notify/sns"
	"github.com/bnema/payment-holds/internal/adapters/notify/writer"
	filestore "github.com/bnema/payment-holds/internal/adapters/objectstore/file"
	s3store "github.com/bnema/payment-holds/internal/adapters/objectstore/s3"
	"github.com/bnema/payment-holds/internal/adapters/render/summary"
	"github.com/bnema/payment-holds/internal/application"
	"github.com/bnema/payment-holds/internal/config"
	"github.com/bnema/payment-holds/internal/logging"
	"github.com/bnema/payment-holds/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg             config.Config
	logger          zerolog.Logger
	httpClient      *http.Client
	ids             ports.CorrelationIDSource
	summaryRenderer func(application.Report, summary.RenderOptions) (string, error)
	loadAWSConfig   func(context.Context) (aws.Config, error)
	startLambda     func(handler any)
}

func wireApp() (*app, error) {
	config.LoadEnvFiles(".env", ".env.local")

	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Fields: map[string]string{"environment": cfg.Environment},
	})
	logging.SetDefault(logger)

	a := &app{
		cfg:             cfg,
		logger:          logger,
		httpClient:      http.DefaultClient,
		ids:             ports.UUIDSource{},
		summaryRenderer: summary.Render,
		startLambda:     func(handler any) { lambda.Start(handler) },
	}
	a.loadAWSConfig = func(ctx context.Context) (aws.Config, error) {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.cfg.Region))
		if err != nil {
			return aws.Config{}, fmt.Errorf("load aws config: %w", err)
		}
		return awsCfg, nil
	}

	return a, nil
}

func (a *app) serviceClient() ports.ServiceClient {
	return httpclient.New(a.cfg.ServiceURLTemplate, a.cfg.Environment, a.httpClient)
}

func (a *app) withLogger(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, &a.logger)
}

// lambdaHandler wires the production adapters: S3 for objects and SNS for the
// summary.
func (a *app) lambdaHandler(ctx context.Context) (*application.Handler, error) {
	if err := a.cfg.RequireTopic(); err != nil {
		return nil, err
	}

	awsCfg, err := a.loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	publisher, err := sns.NewFromConfig(awsCfg, a.cfg.TopicARN)
	if err != nil {
		return nil, err
	}

	return application.NewHandler(s3store.NewFromConfig(awsCfg), a.serviceClient(), publisher, a.ids), nil
}

type localOptions struct {
	storeRoot          string
	notificationOutput io.Writer
	progress           application.ProgressFunc
}

// localHandler reads objects from a directory when storeRoot is set and
// prints notifications when no topic is configured.
func (a *app) localHandler(ctx context.Context, opts localOptions) (*application.Handler, error) {
	var awsCfg *aws.Config
	lazyAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		loaded, err := a.loadAWSConfig(ctx)
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg = &loaded
		return loaded, nil
	}

	var store ports.ObjectStore
	if opts.storeRoot != "" {
		store = filestore.NewStore(opts.storeRoot)
	} else {
		loaded, err := lazyAWS()
		if err != nil {
			return nil, err
		}
		store = s3store.NewFromConfig(loaded)
	}

	var publisher ports.Publisher
	if a.cfg.TopicARN != "" {
		loaded, err := lazyAWS()
		if err != nil {
			return nil, err
		}
		snsPublisher, err := sns.NewFromConfig(loaded, a.cfg.TopicARN)
		if err != nil {
			return nil, err
		}
		publisher = snsPublisher
	} else {
		publisher = writer.NewPublisher(opts.notificationOutput)
	}

	var handlerOpts []application.HandlerOption
	if opts.progress != nil {
		handlerOpts = append(handlerOpts, application.WithProgress(opts.progress))
	}

	return application.NewHandler(store, a.serviceClient(), publisher, a.ids, handlerOpts...), nil
}
