// Package repository defines the data access interface for the superheroes roster.
//
// This package provides the repository abstraction layer for persisting and
// retrieving heroes, powers and the hero_powers edges between them. The
// implementations live in the sqlite and postgres subpackages.
//
// # Repository Interface
//
// The Repository interface defines CRUD for all three record kinds, cascading
// deletes, and transactional bulk import/export of the whole roster.
//
// # Invariants
//
// Every implementation:
//
// - re-validates a record before writing it, so an invalid Power description
// or HeroPower strength can never be persisted
// - rejects a HeroPower whose hero or power does not exist with a
// domain.ReferentialIntegrityError
// - deletes a Hero or Power and all of its edges in one transaction
// - returns a domain.NotFoundError for operations on a missing id
//
// # Schema
//
//	heroes      (id PK, name, super_name)
//	powers      (id PK, name, description)
//	hero_powers (id PK, strength, hero_id FK->heroes.id, power_id FK->powers.id)
//
// Foreign key constraints are named fk_<table>_<column>_<referenced_table>.
package repository
