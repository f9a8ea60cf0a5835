// Package http contains the chi HTTP handlers of the dashboard API.
// Handlers decode and validate requests, delegate to the services
// layer, and map domain errors to RFC 7807 responses.
package http
