package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/tree"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	b, err := cfg.binder()
	if err != nil {
		return err
	}
	var canon [2]*tree.Node
	for i, file := range args {
		n, err := getTreeFile(cfg.MainConfig, cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		env, err := b.Read(n)
		if err != nil {
			return fmt.Errorf("error binding %s: %w", file, err)
		}
		canon[i], err = b.Write(env)
		if err != nil {
			return err
		}
	}
	d, err := codec.Diff(canon[0], canon[1], codec.EncodeFormat(cfg.outFormat()))
	if err != nil {
		return err
	}
	if d == "" {
		return nil
	}
	if err := writeDiff(cc.Out, d, cfg.colors(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func writeDiff(w io.Writer, d string, colors bool) error {
	if !colors {
		_, err := io.WriteString(w, d)
		return err
	}
	del := color.New(color.FgRed).SprintFunc()
	ins := color.New(color.FgGreen).SprintFunc()
	for _, line := range strings.SplitAfter(d, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			line = del(strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "+"):
			line = ins(strings.TrimSuffix(line, "\n")) + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
