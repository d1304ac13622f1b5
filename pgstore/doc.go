// Package pgstore is the PostgreSQL persistence layer. It implements
// the credential store contract from svc/auth and the user management
// store from modules/user against a single users table, and carries the
// schema migrations embedded for startup.
package pgstore
