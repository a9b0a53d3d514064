// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the relation endpoints.
//   - rayid: assigns a unique request id (RayID) to every incoming request,
//     injecting it into the context and the response headers for tracing.
//
// Both are registered globally by the start command; rayid must come first so that
// authentication failures are traced too.
package middleware
