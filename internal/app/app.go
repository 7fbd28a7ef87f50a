package app

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"clientpuzzle/config"
	"clientpuzzle/internal/domain"
	"clientpuzzle/internal/logging"
	"clientpuzzle/internal/usecases"
	"clientpuzzle/pkg/pow/argon2"
	"clientpuzzle/pkg/pow/hashcash"
)

const usage = `usage: puzzle <command> [flags] [args]

commands:
  challenge                              print a random hex payload and the configured cost
  solve  [-cost N] [-meter M] [-hex] <payload>
                                         print a nonce proving cost over payload
  verify [-cost N] [-hex] <payload> <nonce>
                                         exit 0 if nonce proves cost over payload
`

// App runs puzzle commands against a loaded configuration.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
	puzzle *hashcash.Puzzle
}

// Run loads the configuration and executes the command in args.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return NewCommandError("config", err, "")
	}

	logger := logging.New(stderr, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger = logger.With("Service", cfg.Name)

	a, err := New(cfg, logger, stdout, stderr)
	if err != nil {
		return err
	}
	return a.Execute(ctx, args)
}

// New builds the puzzle with the configured hash combiner.
func New(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) (*App, error) {
	var opts []hashcash.Option
	if cfg.Pow.Hash == config.HashArgon2id {
		hasher, err := argon2.NewArgon2(argon2.Params{
			Time:    cfg.Pow.Argon2.Time,
			Memory:  cfg.Pow.Argon2.Memory,
			Threads: cfg.Pow.Argon2.Threads,
		})
		if err != nil {
			return nil, NewCommandError("config", err, "argon2")
		}
		opts = append(opts, hashcash.WithHasher(hasher))
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		out:    stdout,
		errOut: stderr,
		puzzle: hashcash.New(opts...),
	}, nil
}

// Execute dispatches args[0] to its command.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return usageError("puzzle", "missing command")
	}

	switch args[0] {
	case "challenge":
		return a.challenge()
	case "solve":
		return a.solve(ctx, args[1:])
	case "verify":
		return a.verify(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		fmt.Fprintf(a.out, "\nenvironment:\n%s", config.Usage())
		return nil
	default:
		fmt.Fprint(a.errOut, usage)
		return usageError("puzzle", fmt.Sprintf("unknown command %q", args[0]))
	}
}

func (a *App) challenge() error {
	pow, err := usecases.NewPowUsecase(a.cfg.Pow.Cost, a.puzzle, a.logger)
	if err != nil {
		return NewCommandError("challenge", err, "")
	}
	ch, err := pow.GenerateChallenge()
	if err != nil {
		return NewCommandError("challenge", err, "")
	}
	fmt.Fprintf(a.out, "%x %d\n", ch.Payload, ch.Difficulty)
	return nil
}

func (a *App) solve(ctx context.Context, args []string) error {
	fs := a.flagSet("solve")
	cost := fs.Uint("cost", uint(a.cfg.Pow.Cost), "required leading zero bits")
	meter := fs.Uint("meter", uint(a.cfg.Pow.Meter), "maximum failed attempts")
	isHex := fs.Bool("hex", false, "payload is hex encoded")
	timeout := fs.Duration("timeout", a.cfg.Pow.SolveTimeout, "wall clock limit, 0 for none")
	if err := fs.Parse(args); err != nil {
		return usageError("solve", err.Error())
	}
	if fs.NArg() != 1 {
		return usageError("solve", "expected exactly one payload")
	}
	if err := checkCost("solve", *cost); err != nil {
		return err
	}
	if *meter > uint(^uint32(0)) {
		return usageError("solve", "meter out of range")
	}
	payload, err := decodePayload(fs.Arg(0), *isHex)
	if err != nil {
		return NewCommandError("solve", err, "")
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	solver := usecases.NewSolverUsecase(uint32(*meter), a.puzzle, a.logger)
	sol, err := solver.FindSolution(ctx, &domain.Challenge{Payload: payload, Difficulty: uint32(*cost)})
	if err != nil {
		return NewCommandError("solve", err, fmt.Sprintf("cost %d, meter %d", *cost, *meter))
	}

	a.logger.Info("solution found", "cost", *cost, "attempts", sol.Attempts)
	fmt.Fprintln(a.out, sol.Nonce)
	return nil
}

func (a *App) verify(args []string) error {
	fs := a.flagSet("verify")
	cost := fs.Uint("cost", uint(a.cfg.Pow.Cost), "required leading zero bits")
	isHex := fs.Bool("hex", false, "payload is hex encoded")
	if err := fs.Parse(args); err != nil {
		return usageError("verify", err.Error())
	}
	if fs.NArg() != 2 {
		return usageError("verify", "expected a payload and a nonce")
	}
	if err := checkCost("verify", *cost); err != nil {
		return err
	}
	payload, err := decodePayload(fs.Arg(0), *isHex)
	if err != nil {
		return NewCommandError("verify", err, "")
	}
	nonce, err := hashcash.ParseNonce(fs.Arg(1))
	if err != nil {
		return NewCommandError("verify", err, "")
	}

	pow, err := usecases.NewPowUsecase(uint32(*cost), a.puzzle, a.logger)
	if err != nil {
		return NewCommandError("verify", err, "")
	}
	if !pow.ValidateSolution(&domain.Challenge{Payload: payload, Difficulty: uint32(*cost)}, nonce) {
		return NewCommandError("verify", ErrInvalidProof, fmt.Sprintf("cost %d", *cost))
	}
	fmt.Fprintln(a.out, "ok")
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// checkCost applies the issuer's difficulty range to both commands.
func checkCost(op string, cost uint) error {
	if cost < 1 || cost > hashcash.MaxCost {
		return usageError(op, fmt.Sprintf("cost must be between 1 and %d", hashcash.MaxCost))
	}
	return nil
}

func decodePayload(arg string, isHex bool) ([]byte, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrUsage)
	}
	if !isHex {
		return []byte(arg), nil
	}
	payload, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not hex: %v", ErrUsage, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUsage)
	}
	return payload, nil
}
