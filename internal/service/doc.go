// Package service implements business logic for the superheroes roster.
//
// RosterService coordinates between the HTTP handlers and the repository
// layer. It loads records before partial updates, applies the update map
// through the domain setters so validation runs on every write, and publishes
// change events.
//
// # Event System
//
// Every successful write publishes an Event on the EventBus. The server
// forwards these to connected clients as Server-Sent Events.
package service
