// Package tokensource owns the bearer token the events API issues.
//
// The backend does not speak standard OAuth2: a Telegram init data string is
// POSTed as JSON to /auth/telegram/init and a single opaque bearer token comes
// back. There is no refresh token and no expiry metadata, so a token is only
// replaced when the API rejects it.
//
// # Holder
//
// Holder keeps the current token in memory and mirrors it to a
// tokenstore.TokenStore so it survives process restarts:
//
//	holder, err := tokensource.NewHolder(ctx, tokenstore.NewFileStore(path))
//	token, ok := holder.Get()
//
// Holder implements oauth2.TokenSource, so it can be handed to oauth2.Transport
// or anything else that wants one.
//
// # Exchanger
//
// Exchanger performs the credential exchange:
//
//	ex, err := tokensource.NewExchanger(baseURL, provider)
//	token, err := ex.Exchange(ctx)
//
// Configure a custom base transport (e.g., for proxies or tests) with
// WithTransport.
package tokensource
