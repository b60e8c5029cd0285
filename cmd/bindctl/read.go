package main

import (
	"fmt"
	"reflect"

	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/internal/fruit"
	"github.com/signadot/databind/query"

	"github.com/scott-cotton/cli"
)

func read(cfg *ReadConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Read.Parse(cc, args)
	if err != nil {
		cfg.Read.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var q *query.Query
	if cfg.Where != "" {
		q, err = query.Compile(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	return forEachEnvelope(cfg.MainConfig, cc, args, func(b *envelope.Binder[fruit.Fruit], env envelope.Envelope[fruit.Fruit]) error {
		names, err := b.Names(env)
		if err != nil {
			return err
		}
		var kept []fruit.Fruit
		for i, f := range env.Data {
			if q != nil {
				n, err := b.Registry().Context().WriteValue(reflect.ValueOf(f))
				if err != nil {
					return err
				}
				ok, err := q.Match(names[i], n)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			if cfg.Describe {
				fmt.Fprintf(cc.Out, "%s: %s\n", names[i], f.Describe())
				continue
			}
			kept = append(kept, f)
		}
		if cfg.Describe {
			return nil
		}
		return writeEnvelope(cfg.MainConfig, cc.Out, b, envelope.New(env.Version, kept...))
	})
}
