// Package blog is the backend for a small publishing platform: users
// register and sign in, write posts under a fixed set of categories, and
// comment on posts.
//
// Sessions are stateless. A successful sign-in produces two independently
// signed JWTs: a long-lived session token (12h, httpOnly cookie) that only
// identifies the user, and a short-lived claims token (15m, bearer) that
// carries username and role for downstream checks. The auth-status endpoint
// re-derives identity from storage on every call and mints a fresh claims
// token, so role changes and deletions propagate within one claims window
// without a server-side session registry.
//
// Storage goes through Bun repositories; request handling through Fiber
// controllers in this package and the jwtware middleware.
package blog
