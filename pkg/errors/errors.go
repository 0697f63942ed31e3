package errors

import "errors"

// ErrHarvestInProgress means another harvest run holds the lease for the term.
var ErrHarvestInProgress = errors.New("a harvest run for this term is already in progress")
