// Package email defines the outbound mail interface used for password
// reset notifications, with a Postmark implementation for production and
// a log-only sender for development.
package email
