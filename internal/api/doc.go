// Package api is the single outbound path to the events API.
//
// Every request goes through AuthTransport, which attaches the current bearer
// token and recovers from exactly one failure class: a 401 caused by a stale
// token. On 401 the request is retried once after re-authentication, and
// concurrent 401s share a single re-authentication call:
//
//	reauth := api.NewReauthenticator(exchanger, holder, 30*time.Second)
//	client, err := api.NewClient(baseURL, holder, reauth)
//	var me meetups.UserMe
//	err = client.Get(ctx, "/me", &me)
//
// Any other non-2xx response surfaces as *APIError, and transport failures as
// *NetworkError.
package api
