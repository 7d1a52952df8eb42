// Package schemasync exposes the schema reconciliation engine over HTTP
// for the serve command: status, validation and on-demand sync passes.
package schemasync
