package main

import (
	"errors"
	"testing"

	"github.com/scott-cotton/cli"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/format"
)

func TestTagger(t *testing.T) {
	tests := []struct {
		tag  string
		want envelope.Tagger
		err  bool
	}{
		{"", envelope.KeyTag{}, false},
		{"key", envelope.KeyTag{}, false},
		{"field=$class", envelope.FieldTag{Key: "$class"}, false},
		{"field=", nil, true},
		{"class", nil, true},
	}
	for _, tt := range tests {
		cfg := &MainConfig{Tag: tt.tag}
		got, err := cfg.tagger()
		if tt.err {
			if !errors.Is(err, cli.ErrUsage) {
				t.Errorf("%q: expected usage error, got %v", tt.tag, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.tag, err)
		}
		if got != tt.want {
			t.Errorf("%q: got %#v", tt.tag, got)
		}
	}
}

func TestInFormat(t *testing.T) {
	j := format.JSONFormat
	tests := []struct {
		name string
		cfg  MainConfig
		path string
		want format.Format
	}{
		{"default", MainConfig{}, "-", format.YAMLFormat},
		{"suffix", MainConfig{}, "fruit.json", format.JSONFormat},
		{"flag beats suffix", MainConfig{Y: true}, "fruit.json", format.YAMLFormat},
		{"-I beats flag", MainConfig{Y: true, InFormat: &j}, "fruit.yaml", format.JSONFormat},
	}
	for _, tt := range tests {
		if got := tt.cfg.inFormat(tt.path); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}
