// Package storage provides the object storage client used for schema
// backup artifacts.
//
// It wraps the Minio S3-compatible client behind a small interface so the
// backup feature can be tested with mocks. Backup creation mechanics
// (compression, checksums) live outside this service; only the listing,
// retrieval and deletion surface is exposed here.
package storage
