package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/editop"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "mx").
		WithSynopsis("mx [opts] command [opts]").
		WithDescription("mx edits 1C metadata XML in place, preserving the untouched bytes.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mxMain(cfg, cc, args)
		}).
		WithSubs(
			EditCommand(cfg, "schema", dialect.Schema,
				"apply an operation to a report composition schema"),
			EditCommand(cfg, "objects", dialect.Objects,
				"apply an operation to a metadata object"),
			OpsCommand(cfg))
}

func mxMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func EditCommand(mainCfg *MainConfig, name string, d dialect.Name, desc string) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg, Dialect: d}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "dataSet",
			Description: "target dataSet name (default: the first one)",
			Type:        cli.NamedFuncOpt(stringOpt(&cfg.DataSet), "(name)"),
		},
		&cli.Opt{
			Name:        "variant",
			Description: "target settings variant name (default: the first one)",
			Type:        cli.NamedFuncOpt(stringOpt(&cfg.Variant), "(name)"),
		},
		&cli.Opt{
			Name:        "where",
			Description: "only touch elements matching the expression (name, title, type, path)",
			Type:        cli.NamedFuncOpt(stringOpt(&cfg.Where), "(expr)"),
		},
		&cli.Opt{
			Name:        "o",
			Description: "write the result to a file instead of in place",
			Type:        cli.NamedFuncOpt(stringOpt(&cfg.Out), "(filepath)"),
		}}...)

	return cli.NewCommandAt(&cfg.Cmd, name).
		WithSynopsis(name + " [opts] <op> [value] <file>").
		WithDescription(desc).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runEdit(cfg, cc, args)
		})
}

func OpsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OpsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Ops, "ops").
		WithSynopsis("ops").
		WithDescription("list the available operations").
		WithRun(func(cc *cli.Context, args []string) error {
			return listOps(cc)
		})
}

func listOps(cc *cli.Context) error {
	for _, d := range []dialect.Name{dialect.Schema, dialect.Objects} {
		fmt.Fprintf(cc.Out, "%s operations:\n", d)
		for _, name := range editop.Names() {
			op, err := editop.Lookup(name)
			if err != nil || op.Dialect != d {
				continue
			}
			fmt.Fprintf(cc.Out, "\t%-26s %s\n", op.Name, op.Doc)
		}
	}
	return nil
}
