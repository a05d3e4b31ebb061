// Package main provides the nimlib CLI: nimber queries, move and split
// enumeration, rule set authoring, table building, and the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"nimlib/config"
	"nimlib/engine"
	"nimlib/ruleset"
	"nimlib/server"
	"nimlib/table"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "nimber":
		err = cmdNimber(os.Args[2:])
	case "moves":
		err = cmdMoves(os.Args[2:])
	case "splits":
		err = cmdSplits(os.Args[2:])
	case "make-rule-set":
		err = cmdMakeRuleSet(os.Args[2:])
	case "table":
		err = cmdTable(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "version":
		fmt.Printf("nimlib %s (built %s)\n", Version, BuildTime)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: nimlib <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  nimber         compute the nimber of a position")
	fmt.Fprintln(os.Stderr, "  moves          list the legal moves against a stack")
	fmt.Fprintln(os.Stderr, "  splits         list the ways to split a remainder")
	fmt.Fprintln(os.Stderr, "  make-rule-set  write a rule set document")
	fmt.Fprintln(os.Stderr, "  table          compute and store nimber tables")
	fmt.Fprintln(os.Stderr, "  serve          run the HTTP API server")
	fmt.Fprintln(os.Stderr, "  version        print version information")
}

// loadRules reads a rule set from -rules or picks a built-in by -builtin.
func loadRules(rulesPath, builtin string) (*ruleset.Document, error) {
	switch {
	case rulesPath != "" && builtin != "":
		return nil, fmt.Errorf("use either -rules or -builtin, not both")
	case rulesPath != "":
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, err
		}
		return ruleset.Decode(data)
	case builtin != "":
		for _, doc := range ruleset.Examples() {
			if doc.Name == builtin {
				return doc, nil
			}
		}
		return nil, fmt.Errorf("unknown built-in rule set %q", builtin)
	default:
		return nil, fmt.Errorf("a rule set is required: pass -rules or -builtin")
	}
}

func parseHeights(args []string) ([]engine.Stack, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one stack height is required")
	}
	heights := make([]engine.Stack, len(args))
	for i, a := range args {
		h, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid height %q: %w", a, err)
		}
		heights[i] = engine.Stack(h)
	}
	return heights, nil
}

func cmdNimber(args []string) error {
	fs := flag.NewFlagSet("nimber", flag.ExitOnError)
	rulesPath := fs.String("rules", "", "Path to a rule set JSON document")
	builtin := fs.String("builtin", "", "Name of a built-in rule set")
	_ = fs.Parse(args)

	doc, err := loadRules(*rulesPath, *builtin)
	if err != nil {
		return err
	}
	heights, err := parseHeights(fs.Args())
	if err != nil {
		return err
	}

	rs, err := doc.RuleSet()
	if err != nil {
		return err
	}
	for _, h := range heights {
		fmt.Printf("%d: %d\n", h, rs.NimberForHeight(h))
	}
	if len(heights) > 1 {
		pos := engine.Position(heights)
		fmt.Printf("position: %d\n", rs.NimberForPosition(pos))
	}
	return nil
}

func cmdMoves(args []string) error {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	rulesPath := fs.String("rules", "", "Path to a rule set JSON document")
	builtin := fs.String("builtin", "", "Name of a built-in rule set")
	_ = fs.Parse(args)

	doc, err := loadRules(*rulesPath, *builtin)
	if err != nil {
		return err
	}
	heights, err := parseHeights(fs.Args())
	if err != nil {
		return err
	}
	if len(heights) != 1 {
		return fmt.Errorf("moves takes exactly one stack height")
	}

	rs, err := doc.RuleSet()
	if err != nil {
		return err
	}
	for _, move := range rs.LegalMoves(heights[0]) {
		if move.Split.Split {
			fmt.Printf("take %d, split (%d, %d)\n", move.Amount, move.Split.A, move.Split.B)
		} else {
			fmt.Printf("take %d\n", move.Amount)
		}
	}
	return nil
}

func cmdSplits(args []string) error {
	fs := flag.NewFlagSet("splits", flag.ExitOnError)
	asCSV := fs.Bool("csv", false, "Print splits as CSV pairs")
	_ = fs.Parse(args)

	heights, err := parseHeights(fs.Args())
	if err != nil {
		return err
	}
	if len(heights) != 1 {
		return fmt.Errorf("splits takes exactly one remainder")
	}

	pairs := engine.CalculateSplits(heights[0])
	for _, p := range pairs {
		if *asCSV {
			fmt.Printf("%d,%d\n", p.Left, p.Right)
		} else {
			fmt.Printf("(%d, %d)\n", p.Left, p.Right)
		}
	}
	return nil
}

// parseAmountList parses a comma-separated list of exact take amounts.
func parseAmountList(s string) ([]uint64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	amounts := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", p, err)
		}
		amounts = append(amounts, n)
	}
	return amounts, nil
}

func cmdMakeRuleSet(args []string) error {
	fs := flag.NewFlagSet("make-rule-set", flag.ExitOnError)
	name := fs.String("name", "", "Rule set name")
	never := fs.String("take-split-never", "", "Comma-separated exact takes with no split")
	optional := fs.String("take-split-optional", "", "Comma-separated exact takes with optional split")
	always := fs.String("take-split-always", "", "Comma-separated exact takes with forced split")
	allowAny := fs.Bool("allow-any-take", false, "Add a take-any rule")
	allowPlace := fs.Bool("allow-place", false, "Add a reserved place rule")
	pretty := fs.Bool("pretty", false, "Indent the output")
	out := fs.String("out", "", "Write to a file instead of stdout")
	_ = fs.Parse(args)

	var rules []engine.Rule
	for _, spec := range []struct {
		amounts string
		split   engine.SplitRule
	}{
		{*never, engine.SplitNever},
		{*optional, engine.SplitOptional},
		{*always, engine.SplitAlways},
	} {
		amounts, err := parseAmountList(spec.amounts)
		if err != nil {
			return err
		}
		for _, n := range amounts {
			rules = append(rules, engine.Rule{Take: engine.Exact(n), Split: spec.split})
		}
	}
	if *allowAny {
		rules = append(rules, engine.Rule{Take: engine.Any, Split: engine.SplitNever})
	}
	if *allowPlace {
		rules = append(rules, engine.Rule{Take: engine.Place, Split: engine.SplitNever})
	}

	doc := ruleset.FromRules(*name, rules)
	if errs := ruleset.Validate(doc); len(errs) > 0 {
		return errs[0]
	}
	data, err := ruleset.Encode(doc, *pretty)
	if err != nil {
		return err
	}

	if *out != "" {
		return os.WriteFile(*out, append(data, '\n'), 0o644)
	}
	fmt.Printf("%s\n", data)
	return nil
}

func cmdTable(args []string) error {
	fs := flag.NewFlagSet("table", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	maxHeight := fs.Uint64("max-height", 0, "Table height (overrides config)")
	workers := fs.Int("workers", 0, "Worker goroutines (0 = CPU count)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	csvPath := fs.String("csv", "", "Also export each table as CSV under this directory")
	jsonlPath := fs.String("jsonl", "", "Also export all tables as zstd JSONL to this file")
	builtins := fs.Bool("builtins", true, "Include the built-in rule sets")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *maxHeight > 0 {
		cfg.MaxHeight = *maxHeight
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	var docs []*ruleset.Document
	if *builtins {
		docs = ruleset.Examples()
	}
	for _, p := range cfg.RuleSetPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		doc, err := ruleset.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no rule sets to compute")
	}

	tables, err := table.ComputeBatch(docs, engine.Stack(cfg.MaxHeight), cfg.Workers)
	if err != nil {
		return err
	}

	store, err := table.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, t := range tables {
		if err := store.Save(ctx, t); err != nil {
			return fmt.Errorf("save %s: %w", t.Name, err)
		}
		fmt.Printf("%s  %s  heights 0..%d\n", t.Digest[:12], t.Name, t.MaxHeight)
	}

	if *csvPath != "" {
		if err := os.MkdirAll(*csvPath, 0o755); err != nil {
			return err
		}
		for _, t := range tables {
			f, err := os.Create(fmt.Sprintf("%s/%s.csv", *csvPath, t.Digest[:12]))
			if err != nil {
				return err
			}
			if err := table.WriteCSV(f, t); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
	if *jsonlPath != "" {
		if err := table.WriteJSONLZstd(*jsonlPath, tables); err != nil {
			return err
		}
	}
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	listenAddr := fs.String("listen", "", "Listen address (overrides config)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	logger := log.New(os.Stderr, "nimlib ", log.LstdFlags)
	srv := server.New(logger)
	logger.Printf("listening on %s", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
}
