package main

import (
	"fmt"
	"os"

	"github.com/signadot/databind/codec"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.File == "" {
		return fmt.Errorf("%w: patch requires -p <patchfile>", cli.ErrUsage)
	}
	p, err := os.ReadFile(cfg.File)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	b, err := cfg.binder()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		target, err := getTreeFile(cfg.MainConfig, cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if cfg.Merge {
			target, err = codec.MergePatch(target, p)
		} else {
			target, err = codec.Patch(target, p)
		}
		if err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		env, err := b.Read(target)
		if err != nil {
			return fmt.Errorf("patched %s no longer binds: %w", file, err)
		}
		if err := writeEnvelope(cfg.MainConfig, cc.Out, b, env); err != nil {
			return err
		}
	}
	return nil
}
