// Package errors provides coded errors shared by the catalog, selection and
// prompt packages.
//
// The presentation layer never has to parse error strings: it asks for the
// code and shows GetMessage, which leaves the code out.
//
//	res, err := prompt.Generate(state, cat)
//	if errors.IsFailedPrecondition(err) {
//	    // no system selected yet
//	}
//
// Codes in use:
//   - Unavailable: the catalog has not finished loading (or failed to load)
//   - FailedPrecondition: generation attempted without a selected system
//   - InvalidArgument: malformed catalog document or unsupported source
//   - AlreadyExists: duplicate name or title inside a catalog
//   - NotFound: lookups by name or title that do not resolve
//   - Internal: plain errors that carry no code
package errors
