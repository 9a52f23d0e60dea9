// Package server provides the HTTP front end of tabkit: a Gin engine behind
// a net/http middleware stack, served with HTTP/2 cleartext support.
//
// # Middleware
//
// Applied by New, outermost first (server/middleware):
//
//   - Recovery: panic recovery answering with an INTERNAL_ERROR envelope
//   - RequestID: X-Request-Id generation and propagation into the context
//   - CORS: cross-origin headers and preflight handling
//   - BodySizeLimit: request body cap from max_body_size
//   - RequestLogger: request logging and HTTP metrics
//
// # Endpoints
//
// Routes live in server/endpoint and are registered with endpoint.Register:
//
//   - GET  /health: service and component health
//   - GET  /version: build information
//   - GET  /v1/recipes: available recipes
//   - POST /v1/recipes/:name/apply: run a recipe over a CSV body
//   - POST /v1/recipes/:name/run: run a recipe between storage objects
//   - POST /v1/select: project columns out of a CSV body or stored object
//
// Errors are returned as {"error": {...}} bodies built from errors.AppError;
// successful JSON responses are wrapped in {"data": ...}.
package server
