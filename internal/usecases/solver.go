package usecases

import (
	"context"
	"errors"
	"fmt"

	"clientpuzzle/internal/domain"
	"clientpuzzle/pkg/pow/hashcash"
)

// searchSlice is the number of attempts a worker makes between context checks.
const searchSlice = 1 << 12

var (
	ErrSolveCancelled   = errors.New("solution computation cancelled")
	ErrInvalidChallenge = errors.New("invalid challenge")
)

type SolverUsecase interface {
	FindSolution(ctx context.Context, challenge *domain.Challenge) (*domain.Solution, error)
}

type solverUsecaseImpl struct {
	puzzle *hashcash.Puzzle
	meter  uint32
	logger Logger
	// busy is held by the worker using puzzle, so searches never share its random source
	busy chan struct{}
}

// NewSolverUsecase returns a solver that gives up after meter failed attempts.
func NewSolverUsecase(meter uint32, puzzle *hashcash.Puzzle, logger Logger) SolverUsecase {
	return &solverUsecaseImpl{
		puzzle: puzzle,
		meter:  meter,
		logger: logger,
		busy:   make(chan struct{}, 1),
	}
}

// FindSolution runs the search on its own goroutine so ctx can bound the wall
// clock time. On cancellation it returns at once; the worker stops at its next
// slice boundary.
func (s *solverUsecaseImpl) FindSolution(ctx context.Context, challenge *domain.Challenge) (*domain.Solution, error) {
	if challenge == nil {
		return nil, fmt.Errorf("%w: nil challenge", ErrInvalidChallenge)
	}

	type result struct {
		sol hashcash.Solution
		err error
	}
	done := make(chan result, 1)

	go func() {
		sol, err := s.search(ctx, challenge.Payload, challenge.Difficulty)
		done <- result{sol, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrSolveCancelled, ctx.Err())
			}
			s.logger.Error("search failed", "difficulty", challenge.Difficulty, "meter", s.meter, "error", r.err)
			return nil, fmt.Errorf("failed to find solution: %w", r.err)
		}
		s.logger.Debug("solution found", "difficulty", challenge.Difficulty, "attempts", r.sol.Attempts)
		return &domain.Solution{
			Nonce:    r.sol.Nonce,
			Attempts: r.sol.Attempts,
		}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrSolveCancelled, ctx.Err())
	}
}

// search spends the meter in slices of searchSlice attempts, checking ctx
// between them. It allows meter+1 attempts in total, like a single Solve.
func (s *solverUsecaseImpl) search(ctx context.Context, payload []byte, cost uint32) (hashcash.Solution, error) {
	select {
	case s.busy <- struct{}{}:
	case <-ctx.Done():
		return hashcash.Solution{}, ctx.Err()
	}
	defer func() { <-s.busy }()

	var (
		remaining = uint64(s.meter) + 1
		attempts  uint64
	)
	for {
		if err := ctx.Err(); err != nil {
			return hashcash.Solution{}, err
		}
		n := min(remaining, searchSlice)
		// a meter of n-1 allows exactly n attempts
		sol, err := s.puzzle.Solve(payload, cost, uint32(n-1))
		if err == nil {
			sol.Attempts += attempts
			return sol, nil
		}
		if !errors.Is(err, hashcash.ErrBudgetExhausted) {
			return hashcash.Solution{}, err
		}
		attempts += n
		remaining -= n
		if remaining == 0 {
			return hashcash.Solution{}, fmt.Errorf("%w: %d attempts at cost %d", hashcash.ErrBudgetExhausted, attempts, cost)
		}
	}
}
