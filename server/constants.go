// Package server exposes the REST API for starting demo simulations.
package server

// HeaderPrivateKey is the request header carrying the shared access key.
const HeaderPrivateKey = "private-key"

// Response messages.
const (
	OkMessage           = "The simulation has been started"
	BadRequestMessage   = "Bad request"
	UnauthorizedMessage = "Invalid private key"
	InvalidMessage      = "Validation error"
	ServerErrorMessage  = "Internal server error"

	noContentError      = "No content found in the request"
	notObjectError      = "Could not parse JSON object from the input"
	containerStartError = "Could not start a new Platform Manager container"
)
