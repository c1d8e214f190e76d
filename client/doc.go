// Package client provides the JSON request dispatcher.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// Without [WithTransport], requests go through an [HTTPTransport] backed
// by [net/http]. Any [Transport] can be injected instead, which is how
// tests substitute a double.
//
// # Making Requests
//
// Every call performs exactly one request and returns the parsed JSON
// body, preferring its "data" member when present:
//
//	user, err := c.Get(ctx, "https://api.example.com/users/1")
//	created, err := c.Post(ctx, "https://api.example.com/users", newUser)
//
// [Client.Request] is the general form; the method, cache directive,
// credentials, redirect and referrer policies and headers are set with
// [RequestOption] values. Unset fields fall back to fetch defaults:
// GET, "cors", "default", "same-origin", "follow", "no-referrer" and a
// Content-Type of application/json.
//
// Decode straight into a struct with [WithDestination]:
//
//	var u User
//	_, err := c.Get(ctx, url, client.WithDestination(&u))
//
// # Errors
//
// Failures are reported with [ErrTransportUnavailable], [NetworkError],
// [ResponseParseError], [ErrCancelled] and [ErrInvalidOptions]. Nothing is
// retried.
package client
