// Package middleware groups the Fiber middleware used by the serve
// command: ray-ID request correlation and API key authentication.
package middleware
