// Package secrets derives purpose-bound signing keys from configured secrets.
//
// Every configured secret is expanded with HKDF-SHA256 using the deployment
// salt and a purpose string, so the keyed state hash and the envelope signer
// never share key material even when they are fed the same secret.
//
//	ring, err := secrets.DeriveRing(cfg.SigningKeys, cfg.KeySalt, secrets.PurposeEnvelope)
//	if err != nil {
//	    return err
//	}
//	signer := token.NewSigner(ring...)
//
// The ring is ordered: index 0 is the current key, older keys follow.
package secrets
