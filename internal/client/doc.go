// Package client is the admin side of the catalog: an API client, the
// session it authenticates with, and the Controller that drives login, the
// product list, the settings forms and image staging through a Renderer.
//
// The bearer token and the user descriptor live in a DurableStore and survive
// restarts. Whether the dashboard opens again from a stored token alone is
// decided by the RestorePolicy.
package client
