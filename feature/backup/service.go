package backup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"schema-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Prefix is the object key prefix under which schema backups live.
const Prefix = "backups/"

// Info describes one backup artifact in the store.
type Info struct {
	// Name is the backup name (object key without the prefix).
	Name string `json:"name"`
	// Size is the artifact size in bytes.
	Size int64 `json:"size"`
	// LastModified is the artifact's modification time.
	LastModified time.Time `json:"last_modified"`
}

// Service delegates backup operations to the external artifact store.
// Backup creation mechanics (compression, checksums) are owned by the
// collaborating backup tooling; this service only lists, restores and
// deletes the artifacts it finds.
type Service struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a backup service over the given store and database.
func NewService(client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, bucket: bucket, db: db, logger: logger}
}

// List returns the available backups, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check backup bucket: %w", err)
	}
	if !exists {
		return []Info{}, nil
	}

	var backups []Info
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		backups = append(backups, Info{
			Name:         strings.TrimPrefix(obj.Key, Prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	// Newest first for display.
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].LastModified.After(backups[j].LastModified)
	})
	return backups, nil
}

// Restore downloads the named backup and replays its statements against
// the database. The artifact is expected to be a plain SQL script; each
// statement is executed in order inside one transaction.
func (s *Service) Restore(ctx context.Context, name string) error {
	if s.db == nil {
		return fmt.Errorf("database connection required for restore")
	}

	object, err := s.client.GetObject(ctx, s.bucket, Prefix+name, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch backup %s: %w", name, err)
	}
	defer object.Close()

	statements, err := splitStatements(object)
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", name, err)
	}
	if len(statements) == 0 {
		return fmt.Errorf("backup %s contains no statements", name)
	}

	s.logger.Info("Restoring backup", zap.String("name", name), zap.Int("statements", len(statements)))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}

// Delete removes the named backup from the store.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, Prefix+name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete backup %s: %w", name, err)
	}
	s.logger.Info("Backup deleted", zap.String("name", name))
	return nil
}

// splitStatements reads a SQL script and splits it into statements on
// semicolons at line ends. Comment lines are skipped.
func splitStatements(r io.Reader) ([]string, error) {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements, nil
}
