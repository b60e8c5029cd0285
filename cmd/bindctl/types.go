package main

import (
	"fmt"
	"strings"

	"github.com/signadot/databind/bind"

	"github.com/scott-cotton/cli"
)

func types(cfg *TypesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Types.Parse(cc, args); err != nil {
		return err
	}
	b, err := cfg.binder()
	if err != nil {
		return err
	}
	cat, reg := b.Catalog(), b.Registry()
	for _, name := range cat.Names() {
		t, _ := cat.TypeOf(name)
		m, err := reg.Resolve(t)
		if err != nil {
			return err
		}
		ps, err := bind.ResourceParameters(reg, m)
		if err != nil {
			return err
		}
		strs := make([]string, len(ps))
		for i, p := range ps {
			strs[i] = p.String()
		}
		fmt.Fprintf(cc.Out, "%s(%s)\n", name, strings.Join(strs, ", "))
	}
	return nil
}
