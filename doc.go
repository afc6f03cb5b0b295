// Package portal implements the account and access-control core of the
// placement records service: credential signup/login, stateless JWT
// session tokens, and role/ownership scoping of record and notification
// operations.
//
// Roles:
//   - Accounts carry exactly one of two roles, fixed at signup. A "user"
//     sees and submits only their own placement records; an "admin" sees
//     every record and manages the shared notification board.
//
// Sessions:
//   - Login mints a signed, expiring claim set (subject id, role,
//     issued/expiry). Nothing is stored server side; every protected
//     request re-verifies its own bearer token through the jwtware
//     middleware, which attaches the resolved claims to the request
//     context for the policy layer.
//
// Scoping:
//   - Record queries and mutations never consult client-supplied owner
//     information. Ownership is stamped and filtered from the resolved
//     claims only.
package portal
