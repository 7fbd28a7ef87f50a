package app

import (
	"context"
	"errors"
	"fmt"

	"clientpuzzle/internal/usecases"
	"clientpuzzle/pkg/pow/hashcash"
)

var (
	ErrUsage        = errors.New("usage error")
	ErrInvalidProof = errors.New("invalid proof of work")
)

// Exit codes, loosely following sysexits.
const (
	ExitOK              = 0
	ExitInvalidProof    = 1
	ExitBudgetExhausted = 2
	ExitTimeout         = 3
	ExitUsage           = 64
	ExitInternal        = 70
)

type CommandError struct {
	Op   string // Command that failed
	Err  error  // Original error
	Info string // Additional context
}

func (e *CommandError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Info)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func NewCommandError(op string, err error, info string) error {
	return &CommandError{
		Op:   op,
		Err:  err,
		Info: info,
	}
}

func usageError(op, info string) error {
	return NewCommandError(op, ErrUsage, info)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, usecases.ErrSolveCancelled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by Run to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidProof):
		return ExitInvalidProof
	case errors.Is(err, hashcash.ErrBudgetExhausted):
		return ExitBudgetExhausted
	case IsTimeoutError(err):
		return ExitTimeout
	case errors.Is(err, ErrUsage),
		errors.Is(err, hashcash.ErrNonceFormat),
		errors.Is(err, usecases.ErrDifficultyRange):
		return ExitUsage
	default:
		return ExitInternal
	}
}
