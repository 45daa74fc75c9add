package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/tiggercwh/go-wordlebot/config"
	"github.com/tiggercwh/go-wordlebot/gameModel"
	"github.com/tiggercwh/go-wordlebot/solver"
	"github.com/tiggercwh/go-wordlebot/wordlist"
)

// app carries what every subcommand needs once the global flags are read.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	list   wordlist.List
	solver *solver.Solver
}

func setup(ctx context.Context, cfg config.Config, cmd *cli.Command) (*app, error) {
	cfg.WordList = cmd.String("wordlist")
	cfg.LogLevel = cmd.String("log-level")
	cfg.Workers = int(cmd.Int("workers"))
	cfg.Penalty = cmd.Float("penalty")
	cfg.MaxRounds = int(cmd.Int("max-rounds"))
	cfg.Suggestions = int(cmd.Int("n"))

	log := config.NewLogger(cfg.LogLevel, os.Stderr)
	list, err := wordlist.Load(cfg.WordList)
	if err != nil {
		return nil, err
	}
	s, err := solver.New(ctx, list.Words, list.Priors, append(cfg.SolverOptions(), solver.WithLogger(log))...)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, list: list, solver: s}, nil
}

// parsePairs reads alternating GUESS PATTERN arguments.
func parsePairs(args []string) ([]gameModel.Guess, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("must have pairs of guess and pattern, got %d arguments", len(args))
	}
	var history []gameModel.Guess
	for i := 0; i < len(args); i += 2 {
		word, err := gameModel.ParseWord(args[i])
		if err != nil {
			return nil, err
		}
		pattern, err := gameModel.ParsePattern(args[i+1])
		if err != nil {
			return nil, err
		}
		history = append(history, gameModel.NewGuess(word, pattern))
	}
	return history, nil
}

func (a *app) solve(ctx context.Context, secrets []string) error {
	for _, raw := range secrets {
		secret, err := gameModel.ParseWord(raw)
		if err != nil {
			return err
		}
		game, err := a.solver.Solve(ctx, secret, a.cfg.MaxRounds)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", secret)
		for _, g := range game.Guesses {
			fmt.Print("  ")
			printGuessResult(g)
		}
		if game.Solved {
			fmt.Printf("  solved in %d\n", game.Steps())
		} else {
			fmt.Println("  not solved")
		}
	}
	return nil
}

func (a *app) benchmark(ctx context.Context, limit int) error {
	secrets := a.list.Answers()
	if limit > 0 && limit < len(secrets) {
		secrets = secrets[:limit]
	}
	bar := progressbar.Default(int64(len(secrets)))
	res, err := solver.Benchmark(ctx, a.solver, secrets, a.cfg.MaxRounds, func() { bar.Add(1) })
	bar.Finish()
	if err != nil {
		return err
	}

	steps := lo.Keys(res.Steps)
	slices.Sort(steps)
	for _, n := range steps {
		fmt.Printf("%d: %d\n", n, res.Steps[n])
	}
	fmt.Printf("games: %d, mean steps: %.3f, failed: %d\n", res.Games, res.Mean, len(res.Failed))
	if len(res.Failed) > 0 {
		fmt.Println("failed:", lo.Map(res.Failed, func(w gameModel.Word, _ int) string { return w.String() }))
	}
	return nil
}

func (a *app) suggest(ctx context.Context, args []string, lookahead bool) error {
	history, err := parsePairs(args)
	if err != nil {
		return err
	}
	opts := a.cfg.SuggestOptions()
	opts.Lookahead = lookahead
	c, err := a.solver.Remaining(history)
	if err != nil {
		return err
	}
	evals, err := a.solver.Suggest(ctx, history, opts)
	if err != nil {
		return err
	}
	fmt.Printf("%d candidates left\n", c.Len())
	printEvaluations(evals)
	return nil
}

func newCommand(cfg config.Config) *cli.Command {
	var a *app
	return &cli.Command{
		Name:  "wordlebot",
		Usage: "entropy-ranked guesses for five-letter word puzzles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "wordlist",
				Value: cfg.WordList,
				Usage: "TSV/CSV file of word[,prior] rows, empty for the built-in list",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: cfg.LogLevel,
				Usage: "debug|info|warn|error",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: int64(cfg.Workers),
				Usage: "goroutines for matrix build and ranking, 0 is GOMAXPROCS",
			},
			&cli.FloatFlag{
				Name:  "penalty",
				Value: cfg.Penalty,
				Usage: "bias towards likely answers after the first guess",
			},
			&cli.IntFlag{
				Name:  "max-rounds",
				Value: int64(cfg.MaxRounds),
				Usage: "guesses allowed per game",
			},
			&cli.IntFlag{
				Name:    "n",
				Value:   int64(cfg.Suggestions),
				Aliases: []string{"suggestions"},
				Usage:   "number of suggestions",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var err error
			a, err = setup(ctx, cfg, cmd)
			return ctx, err
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "self-play against the given secrets",
				ArgsUsage: "WORD...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() == 0 {
						return cli.Exit("must have at least one secret word", 1)
					}
					return a.solve(ctx, cmd.Args().Slice())
				},
			},
			{
				Name:  "benchmark",
				Usage: "self-play every answer and report the step histogram",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "only play the first N answers, 0 is all",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.benchmark(ctx, int(cmd.Int("limit")))
				},
			},
			{
				Name:      "suggest",
				Usage:     "rank guesses for a history of guess/pattern pairs",
				ArgsUsage: "[GUESS PATTERN]...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "lookahead",
						Value: cfg.Lookahead,
						Usage: "add two-level bits to the top suggestions",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := a.suggest(ctx, cmd.Args().Slice(), cmd.Bool("lookahead")); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return nil
				},
			},
			{
				Name:  "assist",
				Usage: "interactive assistant: enter each guess with its feedback",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.assist(ctx, os.Stdin)
				},
			},
			{
				Name:  "play",
				Usage: "play against a random secret, type 'hint' for suggestions",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.play(ctx, os.Stdin)
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newCommand(cfg).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
