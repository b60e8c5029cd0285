package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/internal/fruit"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	WireOut bool   `cli:"name=wire desc='output in compact format'"`
	Verbose bool   `cli:"name=v desc='log binding decisions to stderr'"`
	Tag     string `cli:"name=tag desc='element tagging: key or field=<name>'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat picks the input format: -I, then -j/-y, then the file suffix.
// Without any of these input is read as YAML, which accepts JSON too.
func (cfg *MainConfig) inFormat(path string) format.Format {
	switch {
	case cfg.InFormat != nil:
		return *cfg.InFormat
	case cfg.J:
		return format.JSONFormat
	case cfg.Y:
		return format.YAMLFormat
	}
	if f, ok := format.FromPath(path); ok {
		return f
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) decOpts(path string) []codec.DecodeOption {
	return []codec.DecodeOption{codec.DecodeFormat(cfg.inFormat(path))}
}

func (cfg *MainConfig) outFormat() format.Format {
	var f format.Format
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) encOpts(w io.Writer) []codec.EncodeOption {
	res := []codec.EncodeOption{
		codec.EncodeFormat(cfg.outFormat()),
		codec.EncodeWire(cfg.WireOut),
	}
	if cfg.colors(w) {
		res = append(res, codec.EncodeColors(codec.NewColors()))
	}
	return res
}

// colors reports whether output to w should be coloured: -color when
// given, else whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) tagger() (envelope.Tagger, error) {
	switch {
	case cfg.Tag == "" || cfg.Tag == "key":
		return envelope.KeyTag{}, nil
	case strings.HasPrefix(cfg.Tag, "field="):
		key := strings.TrimPrefix(cfg.Tag, "field=")
		if key == "" {
			return nil, fmt.Errorf("%w: -tag field= needs a key", cli.ErrUsage)
		}
		return envelope.FieldTag{Key: key}, nil
	}
	return nil, fmt.Errorf("%w: bad -tag %q, want key or field=<name>", cli.ErrUsage, cfg.Tag)
}

func (cfg *MainConfig) logger() *slog.Logger {
	return newLog(os.Stderr, cfg.Verbose)
}

func (cfg *MainConfig) binder() (*envelope.Binder[fruit.Fruit], error) {
	tagger, err := cfg.tagger()
	if err != nil {
		return nil, err
	}
	var (
		regOpts []bind.RegistryOption
		envOpts = []envelope.Option{envelope.WithTagger(tagger)}
	)
	if cfg.Verbose {
		l := cfg.logger()
		regOpts = append(regOpts, bind.WithLogger(l))
		envOpts = append(envOpts, envelope.WithLogger(l))
	}
	return fruit.NewBinder(regOpts, envOpts...)
}

type SampleConfig struct {
	*MainConfig

	Sample *cli.Command
}

type ReadConfig struct {
	*MainConfig
	Where    string `cli:"name=where desc='only elements matching an expression'"`
	Describe bool   `cli:"name=d desc='print a description of each element'"`

	Read *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type PatchConfig struct {
	*MainConfig
	File  string `cli:"name=p desc='JSON patch file'"`
	Merge bool   `cli:"name=m desc='the patch is a JSON merge patch'"`

	Patch *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type TypesConfig struct {
	*MainConfig

	Types *cli.Command
}

type ServeConfig struct {
	*MainConfig

	Serve *cli.Command
}
