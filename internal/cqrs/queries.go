package cqrs

// GetApplicationQuery fetches a single application by ID.
type GetApplicationQuery struct {
	ApplicationID string
}

// GenerateQuoteQuery computes the premium for an application. It fails with a
// validation error when the application is not yet valid for quoting.
type GenerateQuoteQuery struct {
	ApplicationID string
}
