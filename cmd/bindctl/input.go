package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/internal/fruit"
	"github.com/signadot/databind/tree"

	"github.com/scott-cotton/cli"
)

func getTreeFile(cfg *MainConfig, cc *cli.Context, path string) (*tree.Node, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return codec.DecodeBytes(d, cfg.decOpts(path)...)
}

// forEachEnvelope binds each file (stdin when there are none) and calls f
// with the result.
func forEachEnvelope(cfg *MainConfig, cc *cli.Context, files []string, f func(b *envelope.Binder[fruit.Fruit], env envelope.Envelope[fruit.Fruit]) error) error {
	b, err := cfg.binder()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		n, err := getTreeFile(cfg, cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		env, err := b.Read(n)
		if err != nil {
			return fmt.Errorf("error binding %s: %w", file, err)
		}
		if err := f(b, env); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

func writeEnvelope(cfg *MainConfig, w io.Writer, b *envelope.Binder[fruit.Fruit], env envelope.Envelope[fruit.Fruit]) error {
	n, err := b.Write(env)
	if err != nil {
		return err
	}
	if err := codec.Encode(n, w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
