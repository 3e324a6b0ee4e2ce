package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/stepform"
	"github.com/aretw0/stepform/internal/config"
	"github.com/aretw0/stepform/pkg/adapters/file"
	"github.com/aretw0/stepform/pkg/adapters/redis"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/observability"
	"github.com/aretw0/stepform/pkg/persistence/middleware"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/aretw0/stepform/pkg/schema"
)

// loadForm resolves the configured schema: empty means the built-in signup form,
// a built-in form id selects that form, anything else is read as a file.
func loadForm(c *config.Config) (schema.Form, error) {
	catalog := forms.Catalog()
	switch {
	case c.Schema == "":
		return catalog.Get("signup")
	case catalog.Has(c.Schema):
		return catalog.Get(c.Schema)
	}
	return schema.Load(c.Schema)
}

// sink is a Submitter that can also be read back.
type sink interface {
	ports.Submitter
	Get(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context) ([]string, error)
}

// openSink builds the configured submission sink wrapped with the configured
// redaction and encryption. The returned closer is never nil.
func openSink(ctx context.Context, c *config.Config, log *slog.Logger) (ports.Submitter, func() error, error) {
	mws, err := protection(c)
	if err != nil {
		return nil, nil, err
	}
	switch c.Sink {
	case config.SinkFile, config.SinkRedis:
		s, closer, err := openStoredSink(ctx, c, log)
		if err != nil {
			return nil, nil, err
		}
		return middleware.Chain(s, mws...), closer, nil
	default:
		return middleware.Chain(logSink(log), mws...), func() error { return nil }, nil
	}
}

// protection returns the at-rest middlewares: redaction first, then encryption.
func protection(c *config.Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(c.RedactFields) > 0 {
		redact, err := middleware.NewPIIMiddleware(c.RedactFields)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}
	key, err := c.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, seal)
	}
	return mws, nil
}

// openStoredSink builds a sink that keeps submissions.
func openStoredSink(ctx context.Context, c *config.Config, log *slog.Logger) (sink, func() error, error) {
	switch c.Sink {
	case config.SinkFile:
		return file.New(c.SinkDir), func() error { return nil }, nil
	case config.SinkRedis:
		s := redis.New(c.RedisAddr, c.RedisPassword, c.RedisDB,
			redis.WithPrefix(c.RedisKey),
			redis.WithChannel(c.RedisChannel),
			redis.WithLogger(log),
		)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis sink unavailable at %s: %w", c.RedisAddr, err)
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("sink %q does not keep submissions", c.Sink)
}

// logSink logs each submission. Secret values are masked.
func logSink(log *slog.Logger) ports.Submitter {
	return ports.SubmitterFunc(func(ctx context.Context, sub *domain.Submission) error {
		attrs := make([]any, 0, len(sub.Summary)+2)
		attrs = append(attrs, "submission_id", sub.ID, "session_id", sub.SessionID)
		for _, e := range sub.Summary {
			attrs = append(attrs, e.Field, e.DisplayValue())
		}
		log.InfoContext(ctx, "submission received", attrs...)
		return nil
	})
}

// newEngine wires the form, the sink and the logging hooks.
func newEngine(ctx context.Context, c *config.Config, log *slog.Logger, hooks ...domain.LifecycleHooks) (*stepform.Engine, func() error, error) {
	form, err := loadForm(c)
	if err != nil {
		return nil, nil, err
	}
	submitter, closer, err := openSink(ctx, c, log)
	if err != nil {
		return nil, nil, err
	}

	all := observability.LoggingHooks(log)
	for _, h := range hooks {
		all = all.Merge(h)
	}
	eng, err := stepform.New(form,
		stepform.WithLogger(log),
		stepform.WithSubmitter(submitter),
		stepform.WithLifecycleHooks(all),
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return eng, closer, nil
}
