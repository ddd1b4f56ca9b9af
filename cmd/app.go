package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/archery-tournament/assignments"
	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/codes"
	"github.com/Dosada05/archery-tournament/config"
	"github.com/Dosada05/archery-tournament/metrics"
	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/ranking"
	"github.com/Dosada05/archery-tournament/roster"
	"github.com/Dosada05/archery-tournament/scoring"
	"github.com/Dosada05/archery-tournament/services"
	"github.com/Dosada05/archery-tournament/storage"
)

// runtime is built once in Before and shared by every command.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	service *services.TournamentService
}

var snapshotFlag = &cli.StringFlag{
	Name:     "snapshot",
	Aliases:  []string{"s"},
	Usage:    "tournament snapshot (.yaml, .json or .xlsx)",
	Required: true,
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "where to write the updated snapshot (defaults to --snapshot)",
}

func newApp() *cli.App {
	rt := &runtime{}
	return &cli.App{
		Name:  "archery",
		Usage: "archery tournament competition engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"ARCHERY_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			return rt.setup(c.String("config"))
		},
		After: func(c *cli.Context) error {
			if rt.cfg == nil {
				return nil
			}
			return rt.metrics.WriteTextfile(rt.cfg.Metrics.Textfile)
		},
		Commands: []*cli.Command{
			rt.assignCommand(),
			rt.boardCommand(),
			rt.conflictsCommand(),
			rt.rankCommand(),
			rt.bracketCommand(),
			rt.scoreSetCommand(),
			rt.exportCommand(),
			rt.codeCommand(),
		},
	}
}

func (rt *runtime) setup(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Логи идут в stderr, stdout остаётся за выводом команд.
	rt.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(rt.logger)

	rt.cfg = cfg
	rt.metrics = metrics.New()
	rt.service = services.NewTournamentService(
		services.WithLogger(rt.logger),
		services.WithMetrics(rt.metrics),
		services.WithMatchRules(cfg.Match),
		services.WithTournamentType(cfg.Tournament.Type),
	)
	rt.logger.Debug("configuration loaded", slog.String("tournament_type", string(cfg.Tournament.Type)))
	return nil
}

func loadSnapshot(c *cli.Context) (models.Snapshot, error) {
	return roster.LoadFile(c.String(snapshotFlag.Name))
}

func saveSnapshot(c *cli.Context, snapshot models.Snapshot) error {
	path := c.String(outFlag.Name)
	if path == "" {
		path = c.String(snapshotFlag.Name)
	}
	return roster.SaveFile(path, snapshot)
}

func (rt *runtime) assignCommand() *cli.Command {
	return &cli.Command{
		Name:  "assign",
		Usage: "place archers on targets",
		Flags: []cli.Flag{
			snapshotFlag,
			outFlag,
			&cli.IntFlag{Name: "start-target", Usage: "first target number (defaults to config)"},
			&cli.BoolFlag{Name: "replace", Usage: "discard existing assignments"},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			start := rt.cfg.Tournament.StartTarget
			if c.IsSet("start-target") {
				start = c.Int("start-target")
			}

			out, res, err := rt.service.AssignTargets(c.Context, snapshot, services.AssignParams{
				StartTarget: start,
				Replace:     c.Bool("replace"),
			})
			if err != nil {
				return err
			}
			if err := saveSnapshot(c, out); err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tPOS\tTURN\tDIST\tARCHER\tCLUB\tCODE")
			for _, a := range res.Assignments {
				archer, _ := out.ArcherByID(a.ArcherID)
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
					a.TargetNumber, a.Position, a.Turn, a.Distance, archer.FullName(), archer.ClubName(), a.AccessCode)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(res.Conflicts) > 0 {
				fmt.Fprintf(c.App.Writer, "club conflicts on targets: %s\n", joinInts(res.Conflicts))
			}
			return nil
		},
	}
}

func (rt *runtime) boardCommand() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "show target statuses derived from recorded scores",
		Flags: []cli.Flag{snapshotFlag},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tDIST\tSTATUS")
			for _, t := range rt.service.TargetBoard(snapshot) {
				fmt.Fprintf(w, "%d\t%d\t%s\n", t.Number, t.Distance, t.Status)
			}
			return w.Flush()
		},
	}
}

func (rt *runtime) conflictsCommand() *cli.Command {
	return &cli.Command{
		Name:  "conflicts",
		Usage: "list targets where archers of one club shoot together",
		Flags: []cli.Flag{snapshotFlag},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			conflicts := assignments.CheckClubConflicts(snapshot.Assignments, snapshot.Archers)
			if len(conflicts) == 0 {
				fmt.Fprintln(c.App.Writer, "no club conflicts")
				return nil
			}
			fmt.Fprintln(c.App.Writer, joinInts(conflicts))
			return nil
		},
	}
}

func (rt *runtime) rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "rank every division by qualification score",
		Flags: []cli.Flag{snapshotFlag},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			standings, err := rt.service.RankDivisions(c.Context, snapshot)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DIVISION\tSEED\tARCHER\tTOTAL\t10s\tXs")
			for _, st := range standings {
				for _, r := range st.Ranked {
					archer, _ := snapshot.ArcherByID(r.ArcherID)
					fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\n", st.Division.Key, r.Seed, archer.FullName(), r.Total, r.TenCount, r.XCount)
				}
			}
			return w.Flush()
		},
	}
}

func (rt *runtime) bracketCommand() *cli.Command {
	return &cli.Command{
		Name:  "bracket",
		Usage: "generate elimination brackets from the ranking",
		Flags: []cli.Flag{
			snapshotFlag,
			outFlag,
			&cli.StringSliceFlag{Name: "division", Usage: "division key such as senior-female; repeatable"},
			&cli.IntFlag{Name: "cutoff", Usage: "keep only the top N archers (defaults to config)"},
			&cli.BoolFlag{Name: "bronze", Usage: "add a bronze-medal match (defaults to config)"},
			&cli.BoolFlag{Name: "replace", Usage: "regenerate existing brackets"},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			params := services.BuildParams{
				Divisions:   c.StringSlice("division"),
				Cutoff:      rt.cfg.Brackets.Cutoff,
				BronzeMatch: rt.cfg.Brackets.BronzeMatch,
				Replace:     c.Bool("replace"),
			}
			if c.IsSet("cutoff") {
				params.Cutoff = c.Int("cutoff")
			}
			if c.IsSet("bronze") {
				params.BronzeMatch = c.Bool("bronze")
			}

			out, results, err := rt.service.BuildBrackets(c.Context, snapshot, params)
			if err != nil {
				return err
			}
			if err := saveSnapshot(c, out); err != nil {
				return err
			}
			for _, r := range results {
				printBracket(c, out, r.Bracket, r.Matches)
			}
			return nil
		},
	}
}

func printBracket(c *cli.Context, snapshot models.Snapshot, bracket models.EliminationBracket, matches []*models.EliminationMatch) {
	name := func(id *string) string {
		if id == nil {
			return "-"
		}
		if a, ok := snapshot.ArcherByID(*id); ok && a.FullName() != "" {
			return a.FullName()
		}
		return *id
	}
	fmt.Fprintf(c.App.Writer, "%s-%s (%d)\n", bracket.Category, bracket.Gender, bracket.BracketSize)
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, m := range matches {
		if m.IsVoid() {
			continue
		}
		fmt.Fprintf(w, "  %s\t#%d\t%s\tvs\t%s\t%s\t%s\n",
			brackets.RoundName(bracket.BracketSize, m.RoundNumber), m.MatchPosition,
			name(m.Archer1ID), name(m.Archer2ID), m.Status, m.ID)
	}
	_ = w.Flush()
}

func (rt *runtime) scoreSetCommand() *cli.Command {
	return &cli.Command{
		Name:  "score-set",
		Usage: "record a set (or a shoot-off) for an elimination match",
		Flags: []cli.Flag{
			snapshotFlag,
			outFlag,
			&cli.StringFlag{Name: "match", Usage: "match id or legacy code such as M1-3A", Required: true},
			&cli.StringFlag{Name: "division", Usage: "division key that scopes a legacy match code, e.g. senior-male"},
			&cli.StringFlag{Name: "a1", Usage: "archer 1 arrows, e.g. X,10,9"},
			&cli.StringFlag{Name: "a2", Usage: "archer 2 arrows, e.g. 9,9,M"},
			&cli.StringFlag{Name: "shootoff", Usage: "shoot-off distances from centre, archer 1 and 2, e.g. 2.5,4.1"},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			matchID, err := resolveMatchID(snapshot, c.String("match"), c.String("division"))
			if err != nil {
				return err
			}

			var out models.Snapshot
			var res services.MatchResult
			if raw := c.String("shootoff"); raw != "" {
				d1, d2, err := parseDistances(raw)
				if err != nil {
					return err
				}
				out, res, err = rt.service.ResolveShootOff(c.Context, snapshot, matchID, d1, d2)
				if err != nil {
					return err
				}
			} else {
				a1, err := parseArrows(c.String("a1"))
				if err != nil {
					return fmt.Errorf("--a1: %w", err)
				}
				a2, err := parseArrows(c.String("a2"))
				if err != nil {
					return fmt.Errorf("--a2: %w", err)
				}
				out, res, err = rt.service.RecordSet(c.Context, snapshot, services.SetParams{
					MatchID:       matchID,
					Archer1Arrows: a1,
					Archer2Arrows: a2,
				})
				if err != nil {
					return err
				}
			}
			if err := saveSnapshot(c, out); err != nil {
				return err
			}

			m := res.Match
			fmt.Fprintf(c.App.Writer, "%s %d-%d %s\n", m.ID, m.Archer1SetPoints, m.Archer2SetPoints, m.Status)
			if m.WinnerID != nil {
				fmt.Fprintf(c.App.Writer, "winner: %s\n", *m.WinnerID)
			}
			if res.Bracket.IsCompleted {
				fmt.Fprintln(c.App.Writer, "bracket completed")
			}
			return nil
		},
	}
}

func (rt *runtime) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the results workbook to the export dir or the R2 bucket",
		Flags: []cli.Flag{snapshotFlag},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			uploader, err := rt.uploader(c.Context)
			if err != nil {
				return err
			}
			res, err := rt.service.ExportResults(c.Context, snapshot, uploader, rt.cfg.Export.KeyPrefix)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, res.Location)
			return nil
		},
	}
}

func (rt *runtime) uploader(ctx context.Context) (storage.FileUploader, error) {
	if rt.cfg.R2.Enabled() {
		return storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       rt.cfg.R2.AccountID,
			AccessKeyID:     rt.cfg.R2.AccessKeyID,
			SecretAccessKey: rt.cfg.R2.SecretAccessKey,
			BucketName:      rt.cfg.R2.BucketName,
			PublicBaseURL:   rt.cfg.R2.PublicBaseURL,
		})
	}
	return storage.NewLocalUploader(rt.cfg.Export.Dir)
}

func (rt *runtime) codeCommand() *cli.Command {
	return &cli.Command{
		Name:  "code",
		Usage: "access codes",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "print a random access code",
				Action: func(c *cli.Context) error {
					code, err := codes.NewRandomCode()
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, code)
					return nil
				},
			},
			{
				Name:      "target",
				Usage:     "print the fixed code of a target",
				ArgsUsage: "NUMBER",
				Action: func(c *cli.Context) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil || n < 1 {
						return fmt.Errorf("%w: target %q", codes.ErrInvalidCode, c.Args().First())
					}
					fmt.Fprintln(c.App.Writer, codes.TargetCode(n))
					return nil
				},
			},
			{
				Name:      "resolve",
				Usage:     "find the target a code opens",
				ArgsUsage: "CODE",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "snapshot", Aliases: []string{"s"}, Usage: "snapshots to search; repeatable", Required: true},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one code, got %d arguments", c.NArg())
					}
					var snapshots []models.Snapshot
					for _, path := range c.StringSlice("snapshot") {
						s, err := roster.LoadFile(path)
						if err != nil {
							return err
						}
						snapshots = append(snapshots, s)
					}
					ref, err := rt.service.ResolveCode(c.Context, snapshots, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s target %d\n", ref.TournamentID, ref.TargetNumber)
					return nil
				},
			},
		},
	}
}

// resolveMatchID accepts a match ID or a legacy match code. Codes are looked
// up inside the division's bracket when a division is given.
func resolveMatchID(snapshot models.Snapshot, raw, division string) (string, error) {
	code, err := codes.Parse(raw)
	if err != nil || code.Kind != codes.KindMatch {
		return raw, nil
	}

	matches := snapshot.Matches
	if division != "" {
		bracketID := ""
		for _, b := range snapshot.Brackets {
			if ranking.DivisionKey(b.Category, b.Gender) == division {
				bracketID = b.ID
			}
		}
		if bracketID == "" {
			return "", fmt.Errorf("%w: %s", services.ErrDivisionNotFound, division)
		}
		matches = nil
		for _, m := range snapshot.Matches {
			if m.BracketID == bracketID {
				matches = append(matches, m)
			}
		}
	}

	m, _, err := codes.ResolveMatch(raw, matches)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func parseArrows(raw string) ([]*int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]*int, len(parts))
	for i, p := range parts {
		v, err := scoring.ParseArrow(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseDistances(raw string) (float64, float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("shoot-off needs two distances, got %q", raw)
	}
	d1, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("archer 1 distance: %w", err)
	}
	d2, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("archer 2 distance: %w", err)
	}
	return d1, d2, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
