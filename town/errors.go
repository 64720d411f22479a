package town

import (
	"errors"
	"fmt"
)

// Domain failures are sentinel values so command handlers can pick a reply
// with errors.Is. Anything else coming out of this package is a wrapped
// storage error and should go to the generic error boundary.
var (
	ErrNotFound         = errors.New("structure not found")
	ErrDuplicateName    = errors.New("structure name already in use")
	ErrUnknownStructure = errors.New("vote target does not exist")
	ErrStaleSession     = errors.New("vote cast against a superseded adventure")
	ErrNoSession        = errors.New("no adventure has been started")
	ErrNotParticipant   = errors.New("user is not part of the current adventure")
	ErrAlreadyMaxLevel  = errors.New("structure is already at max level")
	ErrMilestoneNotSet  = errors.New("milestone not set for next level")
	ErrUpgradeConflict  = errors.New("structure level changed during upgrade")
)

// InsufficientVotesError reports a failed threshold check along with how
// many votes are still missing.
type InsufficientVotesError struct {
	Required int
	Have     int
}

func (e *InsufficientVotesError) Error() string {
	return fmt.Sprintf("insufficient votes: have %d, need %d", e.Have, e.Required)
}

func (e *InsufficientVotesError) Deficit() int {
	return e.Required - e.Have
}
