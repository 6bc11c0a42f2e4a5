package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"slices"
	"syscall"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/slice"
	"github.com/danderson/dynser"
	"github.com/danderson/dynser/formenc"
	"github.com/danderson/dynser/jsontext"
	"github.com/kr/pretty"
	"go.uber.org/zap"
)

var globalArgs struct {
	SortKeys   bool   `flag:"sort-keys,Sort map entries by key"`
	None       string `flag:"none,Text to write in place of null"`
	UTCZ       bool   `flag:"utc-z,Write zero UTC offsets as Z"`
	StrictInt  bool   `flag:"strict-int,Reject integers that don't fit in 53 bits"`
	OmitMicros bool   `flag:"omit-micros,Drop fractional seconds from times"`
	Verbose    bool   `flag:"verbose,Log setup details to stderr"`
}

var jsonArgs struct {
	Pretty  bool `flag:"pretty,Indent output"`
	Newline bool `flag:"newline,default=true,Append a newline to the output"`
}

func main() {
	root := &command.C{
		Name:     "dynser",
		Usage:    "command args...",
		Help:     "Serialize untyped YAML or JSON documents through dynser.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "json",
				Usage: "json [file]",
				Help: `Serialize a document to JSON.

The document is read from file, or from stdin if no file is given.

YAML tags select extension types:
  !date 2024-01-01              !time 01:02:03.5
  !datetime 2024-01-01T01:02:03 !duration 1h30m
  !uuid <text>                  !url https://example.com/
  !tuple [...]   !set [...]     !frozenset [...]

Mapping keys keep their YAML type. Boolean keys are written as
"true" and "false", and any other non-string key is an error.
Quote a key to use it as a string.
`,
				SetFlags: command.Flags(flax.MustBind, &jsonArgs),
				Run:      runJSON,
			},
			{
				Name:  "form",
				Usage: "form [file]",
				Help:  "Serialize a flat document to URL form encoding.",
				Run:   runForm,
			},
			{
				Name:  "dump",
				Usage: "dump [file]",
				Help:  "Print the structured value tree of a document.",
				Run:   runDump,
			},
			{
				Name:  "tags",
				Usage: "tags [pattern]",
				Help:  "List the types recognized by identity, and their tags.",
				Run:   runTags,
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

// setup configures logging, and returns the serialization options
// selected by global flags.
func setup() (*dynser.Options, error) {
	if globalArgs.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		dynser.SetLogger(l)
	}
	opts := &dynser.Options{
		SortKeys:         globalArgs.SortKeys,
		StrictInteger:    globalArgs.StrictInt,
		UTCZ:             globalArgs.UTCZ,
		OmitMicroseconds: globalArgs.OmitMicros,
	}
	if globalArgs.None != "" {
		opts.NoneValue = &globalArgs.None
	}
	return opts, nil
}

func runJSON(env *command.Env) error {
	opts, err := setup()
	if err != nil {
		return err
	}
	doc, err := readInput(env.Args)
	if err != nil {
		return err
	}
	out, err := jsontext.Marshal(doc, &jsontext.Options{
		Options: *opts,
		Pretty:  jsonArgs.Pretty,
		Newline: jsonArgs.Newline,
	})
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runForm(env *command.Env) error {
	opts, err := setup()
	if err != nil {
		return err
	}
	doc, err := readInput(env.Args)
	if err != nil {
		return err
	}
	out, err := formenc.Marshal(doc, opts)
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}
	fmt.Println(out)
	return nil
}

func runDump(env *command.Env) error {
	opts, err := setup()
	if err != nil {
		return err
	}
	doc, err := readInput(env.Args)
	if err != nil {
		return err
	}
	tree, err := dynser.Serialize(doc, opts)
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}
	fmt.Printf("%# v\n", pretty.Formatter(tree))
	return nil
}

func runTags(env *command.Env) error {
	if _, err := setup(); err != nil {
		return err
	}
	pattern := ""
	switch len(env.Args) {
	case 0:
	case 1:
		pattern = env.Args[0]
	default:
		return fmt.Errorf("too many arguments")
	}
	pf, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}

	var lines []string
	for t, tag := range dynser.Types() {
		lines = append(lines, fmt.Sprintf("%-24s %s", t, tag))
	}
	lines = slice.Partition(lines, pf.MatchString)
	slices.Sort(lines)
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}
