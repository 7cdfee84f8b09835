// Package handler implements the HTTP API for the superheroes roster.
//
// # Handlers
//
// RosterHandler serves CRUD endpoints for heroes, powers and hero powers, plus
// bulk roster import and export through the codec package.
//
// Middleware provides request IDs, zap access logging, panic recovery and
// CORS support.
//
// # Response Format
//
// Records are rendered through their ToDict serializers, so nested
// relationships follow the same suppression rules everywhere.
//
// Validation and referential integrity failures return 400 with
// {"errors": [message]}. Missing records return 404 with
// {"error": "<Kind> not found"}. Anything else is logged and returned as 500.
//
// # Server-Sent Events
//
// The /events endpoint streams change events published by the service.
package handler
