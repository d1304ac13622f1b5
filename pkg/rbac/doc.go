// Package rbac provides the post-authentication role check that gates
// protected endpoints.
//
// The model is deliberately small: an identity carries exactly one role and
// an endpoint declares the set of roles allowed to call it. The middleware
// reads the role from the verified token claims in the request context, so it
// must be mounted strictly after the jwt middleware — a role that has not
// passed signature verification in the same request is never trusted.
//
// # Usage
//
//	r.Route("/users", func(r chi.Router) {
//	    r.Use(jwt.Middleware(tokens))
//	    r.Delete("/{id}", rbac.Require(rbac.RoleAdmin)(deleteHandler).ServeHTTP)
//	})
//
// Check is the non-HTTP variant for service-level guards.
package rbac
