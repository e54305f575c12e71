// Package identity implements the user directory backing the visa-slot API.
//
// It contains the user model with its outward-safe projection, bcrypt
// credential handling, and the store interface with Postgres and in-memory
// implementations.
package identity
