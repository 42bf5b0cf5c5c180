package outbreak

import (
	"errors"

	pcore "outbreak/pkg/core"
)

var (
	// ErrInvalidParameters reports a configuration that cannot describe a disease course.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrInsufficientPool reports a draw asking for more individuals than remain.
	ErrInsufficientPool = pcore.ErrInsufficientPool
	// ErrAlreadyScheduled reports a second transition for the same individual.
	ErrAlreadyScheduled = errors.New("individual already scheduled")
)
