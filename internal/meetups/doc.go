// Package meetups wraps the events API endpoints in typed services.
//
// Every service shares one *api.Client, so all calls carry the bearer token
// and recover from an expired one transparently:
//
//	svc := meetups.New(client)
//	cards, err := svc.Events.List(ctx, meetups.Filter{City: "Казань"}, meetups.FirstPage())
//
// Payloads are validated client-side before they are sent. Validation failures
// are validator.ValidationErrors; API failures are *api.APIError.
package meetups
