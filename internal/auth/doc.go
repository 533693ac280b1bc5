// Package auth implements the authentication core of the service:
//
//   - Claims / TokenService — signed, time-bound bearer tokens (JWT, HS256)
//   - Hasher                — password hashing (bcrypt, argon2id)
//   - RevocationList        — logout support for stateless tokens
//   - Resolver              — bearer token → authenticated Principal
//
// A token is trusted iff its signature verifies, it has not expired, and it
// is not present in the revocation list. The Resolver additionally requires
// the token's subject to still exist in the identity store; a missing
// subject is an authentication failure, indistinguishable from a bad token
// to the caller.
//
// All components follow the same conventions: Config structs with
// ApplyDefaults()/Validate(), constructor functions, and sentinel errors
// for the failure taxonomy.
package auth
