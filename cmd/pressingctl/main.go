package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erazemk/pressing/internal/config"
	"github.com/erazemk/pressing/internal/kv"
	"github.com/erazemk/pressing/internal/store"
)

const usage = "Usage: pressingctl <export|import|clear|stats|types-reset> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "export":
		err = cmdExport(os.Args[2:])
	case "import":
		err = cmdImport(os.Args[2:])
	case "clear":
		err = cmdClear(os.Args[2:])
	case "stats":
		err = cmdStats(os.Args[2:])
	case "types-reset":
		err = cmdTypesReset(os.Args[2:])
	case "-h", "-help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		var importErr *store.ImportError
		if errors.As(err, &importErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", importErr.Reason)
			for _, r := range importErr.Records {
				fmt.Fprintf(os.Stderr, "  record %d %s: %s\n", r.Index, r.ID, r.Reason)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// backingFlags registers the flags every subcommand shares.
type backingFlags struct {
	config, env, db, redis string
}

func (b *backingFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&b.config, "config", "", "YAML config file")
	fs.StringVar(&b.env, "env", ".env", ".env file, ignored if missing")
	fs.StringVar(&b.db, "db", "", "SQLite database path (overrides config)")
	fs.StringVar(&b.redis, "redis", "", "Redis URL (overrides config)")
}

// open resolves the configuration and opens the backing store it names.
func (b *backingFlags) open(ctx context.Context) (kv.Store, error) {
	cfg, err := config.Load(b.config, b.env)
	if err != nil {
		return nil, err
	}
	if b.db != "" {
		cfg.Database = b.db
	}
	if b.redis != "" {
		cfg.RedisURL = b.redis
	}

	return kv.Open(ctx, cfg.Database, cfg.RedisURL, cfg.RedisNamespace)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var b backingFlags
	b.register(fs)
	out := fs.String("o", "", "output file (default: stdout)")
	fs.Parse(args)

	ctx := context.Background()
	s, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := store.NewItems(s).Export(ctx)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported to %s\n", *out)
	return nil
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	var b backingFlags
	b.register(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("import takes exactly one file argument (use - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if path := fs.Arg(0); path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}

	ctx := context.Background()
	s, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	items := store.NewItems(s)
	if err := items.Import(ctx, data); err != nil {
		return err
	}

	stats, err := items.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d items.\n", stats.TotalItems)
	return nil
}

func cmdClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	var b backingFlags
	b.register(fs)
	yes := fs.Bool("yes", false, "confirm deleting every item")
	fs.Parse(args)

	if !*yes {
		return errors.New("refusing to delete every item without -yes")
	}

	ctx := context.Background()
	s, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := store.NewItems(s).Clear(ctx); err != nil {
		return err
	}
	fmt.Println("All items deleted.")
	return nil
}

func cmdStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var b backingFlags
	b.register(fs)
	fs.Parse(args)

	ctx := context.Background()
	s, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := store.NewItems(s).Stats(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func cmdTypesReset(args []string) error {
	fs := flag.NewFlagSet("types-reset", flag.ExitOnError)
	var b backingFlags
	b.register(fs)
	fs.Parse(args)

	ctx := context.Background()
	s, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	catalog := store.NewCatalog(s)
	if err := catalog.Load(ctx); err != nil {
		return err
	}
	if err := catalog.Reset(ctx); err != nil {
		return err
	}

	for _, t := range catalog.List() {
		fmt.Printf("%s\t%s\n", t.ID, t.Name)
	}
	return nil
}
