// Package jwt issues and validates HS256 session tokens with
// github.com/golang-jwt/jwt/v5.
//
// Login returns a TokenPair: a short-lived access token and a longer-lived
// refresh token. Both carry the user id as subject, the user's role and a
// token_type claim so a refresh token is never accepted where an access
// token is required.
//
//	svc, err := jwt.New(cfg.JWT)
//	pair, err := svc.IssuePair(user.ID.String(), user.Role)
//
//	r.With(jwt.Middleware(svc, nil)).Get("/me", handler)
//	claims, ok := jwt.GetClaims(r.Context())
package jwt
