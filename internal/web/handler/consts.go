package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// APIPath prefixes every JSON endpoint.
	APIPath = "/api"

	// IDParam is the route parameter holding a product id.
	IDParam = "id"

	// MsgInternal is sent to the client for any unexpected failure.
	MsgInternal = "Something went wrong!"

	// ErrNilDepsFatalLogMsg is used if app, cfg or deps var pointer is nil.
	ErrNilDepsFatalLogMsg = "app, cfg or deps is nil"
)
