// Package backup is the thin delegation surface over the external backup
// artifact store. It lists, restores and deletes SQL snapshot objects; it
// does not create backups or own compression/checksum mechanics.
package backup
