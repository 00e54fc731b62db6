// Package http implements the HTTP handlers for the assessment analysis
// service. Handlers stay thin: they parse and validate the request, call a
// service, and render either the result or an RFC 7807 problem response.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Engine
//	                                             ↓
//	HTTP Response ← Handler ← Service Response ←─┘
package http
