package logger

import (
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Debug           bool
	SentryDSN       string
	SentryClient    *sentry.Client
	BreadcrumbLevel zapcore.Level
	// Tags are attached to every sentry event, e.g. service and chain
	Tags map[string]string
}

// Logger wraps the zap logger handed to components and the sentry client behind it
type Logger struct {
	*zap.Logger
	sentryClient *sentry.Client
}

// New builds a zap logger. Errors are forwarded to sentry when a DSN or client is configured.
func New(cfg Config) (*Logger, error) {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	if cfg.SentryDSN == "" && cfg.SentryClient == nil {
		return &Logger{Logger: baseLogger}, nil
	}

	sentryClient := cfg.SentryClient
	if sentryClient == nil {
		sentryClient, err = sentry.NewClient(sentry.ClientOptions{
			Dsn:   cfg.SentryDSN,
			Debug: cfg.Debug,
		})
		if err != nil {
			return nil, err
		}
	}

	breadcrumbLevel := cfg.BreadcrumbLevel
	if breadcrumbLevel == zapcore.InvalidLevel {
		breadcrumbLevel = zapcore.InfoLevel
	}

	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level:             zapcore.ErrorLevel, // Send errors to sentry
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   breadcrumbLevel,
		Tags:              cfg.Tags,
	}, zapsentry.NewSentryClientFromClient(sentryClient))
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger:       zapsentry.AttachCoreToLogger(core, baseLogger),
		sentryClient: sentryClient,
	}, nil
}

// Flush syncs the zap logger and flushes buffered sentry events
func (l *Logger) Flush(timeout time.Duration) {
	_ = l.Sync()
	if l.sentryClient != nil {
		l.sentryClient.Flush(timeout)
	}
}
