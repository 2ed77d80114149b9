// Package auth provides authentication for the catalog admin.
//
// There is a single role: an authenticated admin may mutate products and
// settings, everyone else may only read.
//
// # Credential providers
//
// LocalProvider checks credentials against the admins table with Argon2id
// password hashing. EnsureAdmin seeds that table from the configuration on
// first start.
//
// ConfigProvider checks credentials against the configured admin directly and
// is used with the document database backend.
//
// # Tokens
//
// A successful Login returns an HS256 signed JWT. The token carries the admin
// username and, if a TTL is configured, an expiry. There is no revocation.
//
// # Middleware
//
// RequireBearer protects mutating routes. It answers 401 with a JSON body for a
// missing or invalid token and stores the parsed Claims in the fiber locals
// under LocalsClaims.
//
// Example usage:
//
//	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
//	svc := auth.NewService(auth.NewLocalProvider(db), tokens)
//
//	app.Post("/api/products", auth.RequireBearer(tokens), handler)
package auth
