// Package redis hands finished forms to Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrSubmissionNotFound is returned by Get when no submission is stored under the id.
var ErrSubmissionNotFound = errors.New("submission not found")

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "stepform:submission:"

// Submitter implements ports.Submitter using Redis.
// Each submission is stored as JSON under its own key, indexed in a sorted set
// by submission time, and announced on a pub/sub channel when one is configured.
type Submitter struct {
	client  *backend.Client
	prefix  string
	channel string
	ttl     time.Duration
	logger  *slog.Logger
}

type Option func(*Submitter)

// WithTTL sets the expiration for stored submissions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Submitter) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for submissions.
func WithPrefix(prefix string) Option {
	return func(s *Submitter) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithChannel publishes the id of every stored submission on channel.
func WithChannel(channel string) Option {
	return func(s *Submitter) {
		s.channel = channel
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// New creates a new Redis submitter with options.
func New(address, password string, db int, opts ...Option) *Submitter {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis submitter from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Submitter {
	s := &Submitter{
		client: client,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Submitter) key(id string) string {
	return s.prefix + id
}

func (s *Submitter) indexKey() string {
	return s.prefix + "index"
}

// Submit stores the submission and announces it.
func (s *Submitter) Submit(ctx context.Context, sub *domain.Submission) error {
	if sub.ID == "" {
		return fmt.Errorf("submission id cannot be empty")
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	pipe := s.client.TxPipeline()

	// 0 means no expiration.
	pipe.Set(ctx, s.key(sub.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(sub.SubmittedAt.Unix()),
		Member: sub.ID,
	})
	if s.channel != "" {
		pipe.Publish(ctx, s.channel, sub.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store submission in redis: %w", err)
	}

	s.logger.Debug("submission stored", "submission_id", sub.ID, "key", s.key(sub.ID))
	return nil
}

// Get retrieves a stored submission.
func (s *Submitter) Get(ctx context.Context, id string) (*domain.Submission, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal([]byte(val), &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// List returns stored submission ids, oldest first.
// Ids whose key has expired are pruned from the index.
func (s *Submitter) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check submissions: %w", err)
	}

	live := ids[:0]
	var expired []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			s.logger.Warn("failed to prune submission index", "err", err)
		}
	}
	return live, nil
}

// Ping checks connectivity to the server.
func (s *Submitter) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Submitter) Close() error {
	return s.client.Close()
}
