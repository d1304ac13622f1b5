// Package auth exposes the credential flows over HTTP: registration,
// login, and the two halves of the password reset. All four endpoints
// sit behind the tighter auth rate limit.
package auth
