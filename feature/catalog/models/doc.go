// Package models declares the catalog entities whose table shapes the
// reconciler keeps the database synchronized with.
package models
