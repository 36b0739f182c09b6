package types

import "github.com/m-mizutani/goerr/v2"

// Error kinds attached to goerr errors. The HTTP controller maps each tag to one status code.
var (
	// ErrTagBadRequest marks a malformed request path or body
	ErrTagBadRequest = goerr.NewTag("bad_request")
	// ErrTagNotFound marks an unknown webhook identifier or chat
	ErrTagNotFound = goerr.NewTag("not_found")
	// ErrTagUnconfigured marks a webhook that is registered but not assigned to any chat
	ErrTagUnconfigured = goerr.NewTag("unconfigured")
	// ErrTagUnprocessableEvent marks a structurally valid event that cannot be composed
	ErrTagUnprocessableEvent = goerr.NewTag("unprocessable_event")
	// ErrTagDelivery marks a failure of the outbound messaging transport
	ErrTagDelivery = goerr.NewTag("delivery_error")
	// ErrTagCancelled marks a request abandoned by the client before delivery started
	ErrTagCancelled = goerr.NewTag("cancelled")
)
