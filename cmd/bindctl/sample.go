package main

import (
	"fmt"

	"github.com/signadot/databind/internal/fruit"

	"github.com/scott-cotton/cli"
)

func sample(cfg *SampleConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sample.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: sample takes no arguments", cli.ErrUsage)
	}
	b, err := cfg.binder()
	if err != nil {
		return err
	}
	return writeEnvelope(cfg.MainConfig, cc.Out, b, fruit.Sample())
}
