// metatree rebuilds the repeater and flexible-content structure of a flat
// metadata store and maps its values through a YAML schema.
//
// The store is read from a JSON(C), YAML or CBOR file, or from stdin when
// the path is "-". The result is written to stdout.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"metatree/entity"
	"metatree/internal/codec"
	"metatree/internal/flatstore"
	"metatree/internal/mapper"
	"metatree/internal/mapping"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	schemaPath  string
	schemaNames []string
	format      string
	scope       string
	maxDepth    int
	debug       bool
	logLevel    string
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("metatree", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.schemaPath, "schema", "s", "", "YAML schema file")
	flagSet.StringArrayVarP(&opts.schemaNames, "schema-name", "n", nil, "schema to apply from the schema file (repeatable, default: all)")
	flagSet.StringVarP(&opts.format, "format", "f", string(codec.FormatJSON), "output format: json, yaml or cbor")
	flagSet.StringVar(&opts.scope, "scope", "", "only read keys with this prefix, stripping it")
	flagSet.IntVar(&opts.maxDepth, "max-depth", 0, "reconstruction recursion limit (default: schema file value or built-in)")
	flagSet.BoolVar(&opts.debug, "debug", false, "dump the reconstructed tree to stderr and log at debug level")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.Bool("version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}

		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	if v, _ := flagSet.GetBool("version"); v {
		fmt.Fprintf(stdout, "metatree %s\n", version)
		return nil
	}

	if flagSet.NArg() != 1 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("expected exactly one store path, got %d", flagSet.NArg())
	}

	logger, err := newLogger(stderr, opts)
	if err != nil {
		return err
	}

	return convert(flagSet.Arg(0), opts, logger, stdout, stderr)
}

func newLogger(w io.Writer, opts options) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}

	if opts.debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func convert(path string, opts options, logger *slog.Logger, stdout, stderr io.Writer) error {
	format, err := codec.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	schema, file, err := loadSchema(opts)
	if err != nil {
		return err
	}

	maxDepth := opts.maxDepth
	if maxDepth == 0 && file != nil {
		maxDepth = file.MaxDepth
	}

	envOpts := []entity.Option{
		entity.WithLogger(logger),
		entity.WithMaxDepth(maxDepth),
	}
	if file != nil {
		envOpts = append(envOpts, entity.WithAliases(file.Aliases))
	}

	env, err := entity.NewEnv(entity.NewMemoryRepository(), envOpts...)
	if err != nil {
		return err
	}

	for _, d := range env.Engine().Validate(schema).All() {
		logger.Warn("schema", "diagnostic", d.String())
	}

	store, err := codec.ReadStoreFile(path)
	if err != nil {
		return err
	}

	if opts.scope != "" {
		store = flatstore.Scope(store, opts.scope)
	}

	tree, err := env.Tree(store)
	if err != nil {
		return fmt.Errorf("reconstructing %s: %w", path, err)
	}

	if opts.debug {
		dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		dumper.Fdump(stderr, tree)
	}

	mapped := make(map[string]any, len(tree.Fields))

	for _, key := range tree.Keys() {
		value, _ := tree.Value(key)

		mapped[key], err = env.Engine().Map(value, key, schema)
		if err != nil {
			return err
		}
	}

	out, err := mapper.Materialize(mapped)
	if err != nil {
		return err
	}

	return codec.Encode(stdout, format, out)
}

// loadSchema builds the schema selected by the flags. Without a schema
// file the store is only reconstructed.
func loadSchema(opts options) (*mapping.Schema, *mapping.SchemaFile, error) {
	if opts.schemaPath == "" {
		if len(opts.schemaNames) > 0 {
			return nil, nil, errors.New("--schema-name requires --schema")
		}

		return mapping.New(), nil, nil
	}

	file, err := mapping.LoadFile(opts.schemaPath)
	if err != nil {
		return nil, nil, err
	}

	schema, err := file.Build(opts.schemaNames...)
	if err != nil {
		return nil, nil, fmt.Errorf("schema %s: %w", opts.schemaPath, err)
	}

	return schema, file, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	formats := make([]string, len(codec.Formats))
	for i, f := range codec.Formats {
		formats[i] = string(f)
	}

	fmt.Fprintf(w, `metatree rebuilds nested metadata from a flat key/value store and maps
the values through a schema.

Usage:
  metatree [flags] <store.jsonc|->

Examples:
  # Reconstruct a store and print it as JSON
  metatree post-meta.jsonc

  # Apply the "post" schema and write YAML
  metatree --schema schemas.yaml --schema-name post --format yaml post-meta.jsonc

  # Read site options from stdin, keeping only option-page fields
  metatree --scope options_ - < options.json

Output formats: %s

Flags:
`, strings.Join(formats, ", "))
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
