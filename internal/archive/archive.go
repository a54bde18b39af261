// Package archive exports a household's assignment history to S3-compatible
// storage. History recording on the assignment path is best-effort, so the
// archive is the durability backstop: an encrypted JSON export an operator
// can trigger (or schedule externally) and restore from.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/navidakram1/splitduty/internal/fairness"
	"github.com/navidakram1/splitduty/internal/model"
	"github.com/navidakram1/splitduty/internal/store"
)

const (
	uploadTimeout  = 30 * time.Second
	uploadAttempts = 3
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration plus the export passphrase.
type Config struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
}

// Export is the JSON document uploaded per household.
type Export struct {
	HouseholdID int64              `json:"household_id"`
	ExportedAt  time.Time          `json:"exported_at"`
	Fairness    *fairness.Report   `json:"fairness"`
	Assignments []model.Assignment `json:"assignments"`
}

// Exporter uploads encrypted history exports.
type Exporter struct {
	cfg         Config
	members     *store.MemberStore
	assignments *store.AssignmentStore
	client      s3Client
	logger      *slog.Logger
}

// NewExporter creates an Exporter. With incomplete S3 configuration the
// exporter is disabled and Export returns an error.
func NewExporter(cfg Config, members *store.MemberStore, assignments *store.AssignmentStore, logger *slog.Logger) *Exporter {
	e := &Exporter{
		cfg:         cfg,
		members:     members,
		assignments: assignments,
		logger:      logger,
	}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		e.client = newS3Client(cfg)
	}
	return e
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether the exporter has a usable S3 configuration.
func (e *Exporter) Enabled() bool {
	return e.client != nil
}

// Export uploads the household's full assignment history, encrypted, and
// returns the object key. Uploads are idempotent (the key embeds the export
// timestamp), so transient failures retry with fibonacci backoff.
func (e *Exporter) Export(ctx context.Context, householdID int64) (string, error) {
	if !e.Enabled() {
		return "", fmt.Errorf("archive storage is not configured")
	}

	assignments, err := e.assignments.ListByHousehold(householdID, 0)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	members, err := e.members.ListByHousehold(householdID)
	if err != nil {
		return "", fmt.Errorf("load roster: %w", err)
	}

	now := time.Now().UTC()
	doc := Export{
		HouseholdID: householdID,
		ExportedAt:  now,
		Fairness:    fairness.BuildReport(householdID, members),
		Assignments: assignments,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	body := payload
	suffix := ".json"
	if e.cfg.Passphrase != "" {
		body, err = Encrypt(payload, e.cfg.Passphrase)
		if err != nil {
			return "", fmt.Errorf("encrypt export: %w", err)
		}
		suffix = ".json.enc"
	}

	key := fmt.Sprintf("archives/household-%d/%s%s", householdID, now.Format("20060102T150405Z"), suffix)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(uploadAttempts-1, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, putErr := e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(e.cfg.Bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
		if putErr != nil {
			e.logger.Warn("archive upload attempt failed", "key", key, "error", putErr)
			return retry.RetryableError(putErr)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}

	e.logger.Info("archive uploaded", "household_id", householdID, "key", key, "records", len(assignments))
	return key, nil
}
