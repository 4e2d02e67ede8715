package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"legal_office_go/config"
	"legal_office_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gorm.io/gorm"
)

// CaptureArchive stores raw provider payloads so the row in source_capture_raw
// can be replaced on the next sync without losing history.
type CaptureArchive interface {
	Put(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Archive is the global capture archive instance
var Archive CaptureArchive

// InitializeArchive sets up the capture archive based on configuration
func InitializeArchive(cfg *config.Config) {
	if cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" && cfg.R2SecretAccessKey != "" && cfg.R2BucketName != "" {
		r2, err := NewR2Archive(cfg)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_, err = r2.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &cfg.R2BucketName})
		}
		if err != nil {
			log.Printf("[WARNING] R2 archive unavailable: %v. Falling back to local archive.", err)
			Archive = NewLocalArchive(cfg.ArchiveDir)
			return
		}
		Archive = r2
		log.Printf("Capture archive established (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
		return
	}
	Archive = NewLocalArchive(cfg.ArchiveDir)
	log.Printf("Capture archive established (local filesystem - path: %s)", cfg.ArchiveDir)
}

// R2Archive implements CaptureArchive on Cloudflare R2
type R2Archive struct {
	client *s3.Client
	bucket string
}

// NewR2Archive creates a new R2-backed archive
func NewR2Archive(cfg *config.Config) (*R2Archive, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	creds := credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &R2Archive{client: client, bucket: cfg.R2BucketName}, nil
}

func (r *R2Archive) Put(ctx context.Context, key string, payload []byte) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive capture %s: %w", key, err)
	}
	return nil
}

func (r *R2Archive) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capture %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// LocalArchive implements CaptureArchive on the local filesystem
type LocalArchive struct {
	baseDir string
}

func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{baseDir: baseDir}
}

func (l *LocalArchive) path(key string) string {
	// keys look like captures/<firm>/<case>/<timestamp>.json
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

func (l *LocalArchive) Put(ctx context.Context, key string, payload []byte) error {
	path := l.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write capture %s: %w", key, err)
	}
	return nil
}

func (l *LocalArchive) Get(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(l.path(key))
}

// ArchiveCapture snapshots the case's raw provider payload into the archive
// and records the key on the case. Archival failures are logged, never fatal:
// the live row still holds the latest capture.
func ArchiveCapture(ctx context.Context, db *gorm.DB, archive CaptureArchive, record *models.CaseRecord) {
	if archive == nil || len(record.SourceCaptureRaw) == 0 {
		return
	}

	payload, err := json.Marshal(record.SourceCaptureRaw)
	if err != nil {
		log.Printf("[WARNING] failed to serialize capture for %s: %v", record.CaseNumber, err)
		return
	}

	key := fmt.Sprintf("captures/%s/%s/%d.json",
		record.FirmID,
		strings.ReplaceAll(record.CaseNumber, "/", "-"),
		time.Now().UnixNano())
	if err := archive.Put(ctx, key, payload); err != nil {
		log.Printf("[WARNING] %v", err)
		return
	}

	if err := db.WithContext(ctx).Model(record).Update("capture_archive_key", key).Error; err != nil {
		log.Printf("[WARNING] failed to record archive key for %s: %v", record.CaseNumber, err)
	}
}
