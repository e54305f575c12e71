// Package session implements the session lifecycle: registration, login,
// refresh-token rotation, logout, and password changes.
//
// Authentication state is either stateless (access tokens, verified locally)
// or externalized (refresh records in the revocation store, users in the
// directory), so the API can run as independent horizontally scaled
// instances without coordination.
package session
