// Package user exposes user management over HTTP: listing, lookup,
// profile updates, soft deletion and profile picture upload. Every
// route requires a verified access token; deletion additionally
// requires the admin role.
package user
