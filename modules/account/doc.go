// Package account exposes auth.Service over a JSON HTTP API.
//
// Routes:
//
//	POST /auth/register
//	POST /auth/login
//	POST /auth/refresh
//	POST /auth/logout                           (bearer)
//	GET  /auth/activate/{token_a}/{token_b}
//	POST /auth/activation/resend
//	POST /auth/password/reset
//	GET  /auth/password/reset/{token_a}/{token_b}
//	POST /auth/password/change/{token_b}
//	GET  /auth/me                               (bearer)
//	POST /auth/me/role                          (bearer)
//	GET  /health/live
//	GET  /health/ready
//
// Errors are JSON objects with a stable "error" code and a "message" taken
// from the YAML catalog, see messages.yaml.
package account
