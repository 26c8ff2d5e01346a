// Package auth manages email and password accounts: registration with
// emailed activation links, login with JWT sessions, password reset and
// role changes.
//
// Activation and reset links carry a dualtoken pair. The pair is bound to
// the user's id and activation state, so activating an account invalidates
// every activation link issued before, and each link is redeemed at most
// once through the ledger.
//
// Storage is abstracted behind UserStore; PostgresUserStore is the
// production implementation and also serves as the dualtoken.IdentityFinder.
//
//	svc := auth.NewService(users, tokens, sessions,
//	    auth.NewMailNotifier(sender, cfg.BaseURL, supportEmail, tokenCfg.MaxAge),
//	    auth.WithBcryptCost(cfg.BcryptCost),
//	    auth.WithLogger(log),
//	)
//	user, err := svc.Register(ctx, auth.RegisterInput{...})
package auth
