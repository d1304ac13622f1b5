// Package password wraps bcrypt hashing and verification for stored
// credentials.
//
// The package exposes a small Hasher type so the cost factor can be injected
// once at construction time and the rest of the codebase never touches bcrypt
// directly. Verification is constant-time, inherited from
// bcrypt.CompareHashAndPassword.
//
// # Usage
//
//	hasher := password.New(password.DefaultCost)
//	hash, err := hasher.Hash("longenough1")
//	if err := hasher.Verify(hash, "longenough1"); err != nil {
//	    // wrong password
//	}
package password
