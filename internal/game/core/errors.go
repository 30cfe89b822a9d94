package core

import "errors"

var (
	ErrEmptyRoster              = errors.New("roster is empty")
	ErrDuplicateParticipant     = errors.New("duplicate participant ID")
	ErrDuplicatePosition        = errors.New("position occupied by more than one participant")
	ErrUnknownPosition          = errors.New("position unknown to distance oracle")
	ErrStaleBoard               = errors.New("board start ownership does not match roster")
	ErrUnbalancedReconciliation = errors.New("remaining targets and remaining humans differ in length")
)
