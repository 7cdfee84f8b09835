// Package domain defines the core record types for the superheroes roster.
//
// # Core Types
//
// Hero is a named character. Power is a named, described capability. HeroPower
// is the edge record attaching a Power to a Hero with a strength rating; it is
// the only place a Hero and a Power are associated.
//
// # Validation
//
// Validated fields are written through explicit setters (Power.SetDescription,
// HeroPower.SetStrength) or through Apply, which checks every pending change
// before committing any of them. A rejected write leaves the record untouched.
//
// # Derived Views
//
// Hero.Powers and Power.Heroes project the loaded HeroPower edges through their
// counterpart reference. They are computed on every call and never stored.
//
// # Serialization
//
// ToDict flattens a record and its loaded relations into a Dict. Each record
// type declares the relationship paths that must not be expanded when reached
// from it, which cuts the Hero -> HeroPower -> Power cycle one hop in.
//
// This package has no database or network dependencies.
package domain
