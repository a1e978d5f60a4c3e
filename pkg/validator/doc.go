// Package validator builds declarative validation from small Rule values.
//
// Each rule pairs a Check func with a ValidationError. Apply evaluates rules in
// order and aggregates failures into ValidationErrors, which implements error.
// Rule messages can be overridden with Rule.WithMessage so callers control the
// wording surfaced to clients:
//
//	err := validator.Apply(
//		validator.Required("email", in.Email).WithMessage("email is required"),
//		validator.ValidEmail("email", in.Email).WithMessage("email is invalid"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		msg := verrs.First().Message
//	}
package validator
