package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "bindctl").
		WithSynopsis("bindctl [opts] command [opts]").
		WithDescription("bindctl binds, checks and converts fruit envelopes.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return bindctlMain(cfg, cc, args)
		}).
		WithSubs(
			SampleCommand(cfg),
			ReadCommand(cfg),
			ConvertCommand(cfg),
			PatchCommand(cfg),
			DiffCommand(cfg),
			TypesCommand(cfg),
			ServeCommand(cfg))
}

func SampleCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SampleConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Sample, "sample").
		WithSynopsis("sample").
		WithDescription("write an envelope holding one of each fruit").
		WithRun(func(cc *cli.Context, args []string) error {
			return sample(cfg, cc, args)
		})
}

func ReadCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReadConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Read, "read").
		WithAliases("r").
		WithSynopsis("read [-where expr] [-d] [files]").
		WithDescription(readDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return read(cfg, cc, args)
		})
}

const readDescription = `read binds envelopes and writes them back out.

With -where only the elements for which the expression is true are kept.
The expression sees 'type', the element's name, and 'value', its tree:

  bindctl read -where 'type == "Apple" && value.seeds > 2' fruit.yaml

The functions has(value, key) and get(value, "a.b") are available for
optional keys.`

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c").
		WithSynopsis("convert [files]").
		WithDescription("bind envelopes and re-encode them in the output format").
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch -p <patchfile> [-m] [files]").
		WithDescription("apply a JSON patch to envelopes and check the result still binds").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff a b").
		WithDescription("bind two envelopes and show how their canonical forms differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Types, "types").
		WithAliases("t").
		WithSynopsis("types").
		WithDescription("list element names and their parameters").
		WithRun(func(cc *cli.Context, args []string) error {
			return types(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve").
		WithDescription("serve JSON-RPC binding requests on stdin and stdout").
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}
