package usecases

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"clientpuzzle/internal/domain"
	"clientpuzzle/pkg/pow/hashcash"
)

const challengeLength = 16

var (
	ErrDifficultyRange = errors.New("difficulty out of acceptable range")
	ErrGenerateRandom  = errors.New("failed to generate random challenge")
)

// Logger is the subset of *slog.Logger the usecases log through.
type Logger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// PowUsecase defines the interface for issuing and checking challenges.
type PowUsecase interface {
	GenerateChallenge() (*domain.Challenge, error)
	ValidateSolution(challenge *domain.Challenge, nonce hashcash.Nonce) bool
}

type powUsecaseImpl struct {
	puzzle     *hashcash.Puzzle
	difficulty uint32
	random     io.Reader
	logger     Logger
}

// NewPowUsecase initializes the powUsecaseImpl with the specified difficulty.
func NewPowUsecase(difficulty uint32, puzzle *hashcash.Puzzle, logger Logger) (PowUsecase, error) {
	if difficulty < 1 || difficulty > hashcash.MaxCost {
		return nil, fmt.Errorf("%w: difficulty must be between 1 and %d", ErrDifficultyRange, hashcash.MaxCost)
	}
	return &powUsecaseImpl{
		puzzle:     puzzle,
		difficulty: difficulty,
		random:     rand.Reader,
		logger:     logger,
	}, nil
}

// GenerateChallenge creates a new challenge over a cryptographically random payload.
func (p *powUsecaseImpl) GenerateChallenge() (*domain.Challenge, error) {
	payload := make([]byte, challengeLength)
	if _, err := io.ReadFull(p.random, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerateRandom, err)
	}
	p.logger.Debug("challenge generated", "difficulty", p.difficulty, "length", len(payload))
	return &domain.Challenge{
		Payload:    payload,
		Difficulty: p.difficulty,
	}, nil
}

// ValidateSolution checks the nonce against the challenge at the issuer's
// difficulty, not the one carried by the challenge.
// It returns false for empty challenges.
func (p *powUsecaseImpl) ValidateSolution(challenge *domain.Challenge, nonce hashcash.Nonce) bool {
	if challenge == nil || len(challenge.Payload) == 0 {
		p.logger.Info("invalid input: empty challenge")
		return false
	}
	return p.puzzle.Verify(challenge.Payload, nonce, p.difficulty)
}
