// Package auth implements account registration, password and Google
// sign in, and JWT issuance for the where to go next API.
//
// Accounts:
//   - Account is the bun model stored in the accounts table. Email, username
//     and the linked Google id are unique, enforced by indexes in the
//     credential store. Every account keeps at least one way to sign in.
//
// Identity resolution:
//   - IdentityResolver registers password accounts, checks credentials and
//     resolves Google profiles by external id, then email (linking), then a
//     new account. It never tells a caller which part of a login was wrong.
//
// Tokens:
//   - TokenService signs HS256 tokens valid for seven days. The subject and
//     the userId claim both carry the account id.
//
// HTTP:
//   - AuthController exposes register, login, google and me over fiber.
//     Failures map to status codes in writeError and are rendered as
//     {"error": "..."}.
package auth
