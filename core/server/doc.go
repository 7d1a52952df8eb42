// Package server holds the HTTP server configuration shared by the serve
// command and its middleware.
package server
