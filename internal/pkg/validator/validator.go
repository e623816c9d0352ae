package validator

// Validator checks inbound request payloads before they reach a use case.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}
