package main

import (
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/internal/fruit"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	return forEachEnvelope(cfg.MainConfig, cc, args, func(b *envelope.Binder[fruit.Fruit], env envelope.Envelope[fruit.Fruit]) error {
		return writeEnvelope(cfg.MainConfig, cc.Out, b, env)
	})
}
