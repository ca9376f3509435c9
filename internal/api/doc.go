// Package api implements the JSON HTTP API.
//
// The API is small and read-oriented: patients ask questions about a past
// session and get back a grounded answer. Routes are registered on a
// net/http ServeMux with Go 1.22 method patterns, wrapped in a middleware
// stack (recovery, request ID, logging, per-IP rate limiting). Health
// probes bypass the stack so orchestration checks are never rate limited.
package api
