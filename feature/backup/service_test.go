package backup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"schema-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	return db
}

func objectChannel(objects ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		ch <- obj
	}
	close(ch)
	return ch
}

func TestList(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "schema-backups").Return(true, nil)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	mockClient.On("ListObjects", mock.Anything, "schema-backups", mock.Anything).
		Return(objectChannel(
			minio.ObjectInfo{Key: Prefix + "january.sql", Size: 100, LastModified: older},
			minio.ObjectInfo{Key: Prefix + "june.sql", Size: 200, LastModified: newer},
		))

	svc := NewService(mockClient, "schema-backups", nil, nil)
	backups, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 2)

	// Newest first, prefix stripped.
	assert.Equal(t, "june.sql", backups[0].Name)
	assert.Equal(t, int64(200), backups[0].Size)
	assert.Equal(t, "january.sql", backups[1].Name)
	mockClient.AssertExpectations(t)
}

func TestList_MissingBucket(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "schema-backups").Return(false, nil)

	svc := NewService(mockClient, "schema-backups", nil, nil)
	backups, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, backups)
	mockClient.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestRestore(t *testing.T) {
	db := setupTestDB(t, "backup_restore")

	script := `-- schema backup
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);

INSERT INTO customers (id, name) VALUES (1, 'alice');
INSERT INTO customers (id, name) VALUES (2, 'bob');
`
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "schema-backups", Prefix+"nightly.sql", mock.Anything).
		Return(io.NopCloser(strings.NewReader(script)), nil)

	svc := NewService(mockClient, "schema-backups", db, nil)
	err := svc.Restore(context.Background(), "nightly.sql")
	require.NoError(t, err)

	var count int64
	err = db.Raw("SELECT COUNT(*) FROM customers").Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	mockClient.AssertExpectations(t)
}

func TestRestore_FailedStatementRollsBack(t *testing.T) {
	db := setupTestDB(t, "backup_restore_rollback")

	script := `CREATE TABLE customers (id INTEGER PRIMARY KEY);
INSERT INTO nonexistent_table (id) VALUES (1);
`
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "schema-backups", Prefix+"broken.sql", mock.Anything).
		Return(io.NopCloser(strings.NewReader(script)), nil)

	svc := NewService(mockClient, "schema-backups", db, nil)
	err := svc.Restore(context.Background(), "broken.sql")
	assert.Error(t, err)
}

func TestRestore_RequiresDatabase(t *testing.T) {
	svc := NewService(new(mocks.Client), "schema-backups", nil, nil)
	err := svc.Restore(context.Background(), "nightly.sql")
	assert.Error(t, err)
}

func TestRestore_EmptyScript(t *testing.T) {
	db := setupTestDB(t, "backup_restore_empty")

	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "schema-backups", Prefix+"empty.sql", mock.Anything).
		Return(io.NopCloser(strings.NewReader("-- nothing here\n")), nil)

	svc := NewService(mockClient, "schema-backups", db, nil)
	err := svc.Restore(context.Background(), "empty.sql")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("RemoveObject", mock.Anything, "schema-backups", Prefix+"stale.sql", mock.Anything).
		Return(nil)

	svc := NewService(mockClient, "schema-backups", nil, nil)
	err := svc.Delete(context.Background(), "stale.sql")
	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestSplitStatements(t *testing.T) {
	script := `-- comment line
CREATE TABLE a (
	id INTEGER
);

INSERT INTO a (id) VALUES (1);
UPDATE a SET id = 2 WHERE id = 1`

	statements, err := splitStatements(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, statements, 3)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE TABLE a"))
	assert.Equal(t, "INSERT INTO a (id) VALUES (1);", statements[1])
	// Trailing statement without a semicolon still counts.
	assert.Equal(t, "UPDATE a SET id = 2 WHERE id = 1", statements[2])
}
