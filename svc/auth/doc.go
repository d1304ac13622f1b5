// Package auth implements the credential lifecycle: registration, login
// with token issuance, and the single-use password reset flow. The
// service depends on a UserStore for persistence, a password hasher, the
// token service, and an email sender; everything is injected so the
// package stays storage and transport agnostic.
package auth
