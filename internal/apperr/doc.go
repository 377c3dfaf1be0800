// Package apperr defines the error taxonomy shared by the shellkit core.
//
// Every core operation reports failures through one of a small set of
// categories so callers can branch on them with errors.Is or errors.As:
//
//   - ErrNotFound: a file, section, key, profile, workspace or group is absent
//   - ErrAlreadyExists: a duplicate key, profile or workspace would be created
//   - ErrValidation: a name or value violates the active naming rules
//   - ErrProtectedKey: a mutation targeted a protected key
//   - ErrIO: the filesystem refused a read or write
//   - ErrPartialFailure: an aggregate read resolved only some of its items
//
// The typed errors (NotFoundError, AlreadyExistsError, ...) carry the context
// needed for a useful message and match their sentinel through an Is method:
//
//	if errors.Is(err, apperr.ErrNotFound) {
//		// fall back to a default
//	}
//
//	var nf *apperr.NotFoundError
//	if errors.As(err, &nf) && nf.Kind == apperr.KindSection {
//		// the section, not the key, was missing
//	}
package apperr
