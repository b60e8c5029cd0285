// Package rpc serves envelope binding over JSON-RPC 2.0.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/query"
	"github.com/signadot/databind/tree"
	"go.lsp.dev/jsonrpc2"
)

const (
	MethodCheck     = "envelope/check"
	MethodNormalize = "envelope/normalize"
	MethodTypes     = "types/list"
)

type CheckParams struct {
	Envelope json.RawMessage `json:"envelope"`
	// Where optionally selects elements, see package query.
	Where string `json:"where,omitempty"`
}

type CheckResult struct {
	Version  int      `json:"version"`
	Names    []string `json:"names"`
	Selected []int    `json:"selected,omitempty"`
}

type NormalizeParams struct {
	Envelope json.RawMessage `json:"envelope"`
}

type TypeInfo struct {
	Name       string   `json:"name"`
	Parameters []string `json:"parameters"`
}

// Server answers binding requests for envelopes of T.
type Server[T any] struct {
	binder *envelope.Binder[T]
	log    *slog.Logger
}

func NewServer[T any](b *envelope.Binder[T], log *slog.Logger) *Server[T] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server[T]{binder: b, log: log}
}

// Serve handles requests on rwc until the peer hangs up or ctx is done.
func (s *Server[T]) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, jsonrpc2.ReplyHandler(s.Handler()))
	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
		return ctx.Err()
	}
	err := conn.Err()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}

func (s *Server[T]) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.log.Debug("request", "method", req.Method())
		var (
			res any
			err error
		)
		switch req.Method() {
		case MethodCheck:
			res, err = s.check(req.Params())
		case MethodNormalize:
			res, err = s.normalize(req.Params())
		case MethodTypes:
			res, err = s.types()
		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
		if err != nil {
			s.log.Debug("request failed", "method", req.Method(), "error", err)
		}
		return reply(ctx, res, err)
	}
}

func (s *Server[T]) read(raw json.RawMessage) (*tree.Node, envelope.Envelope[T], error) {
	var zero envelope.Envelope[T]
	if len(bytes.TrimSpace(raw)) == 0 || string(raw) == "null" {
		return nil, zero, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "missing envelope")
	}
	n, err := codec.DecodeBytes(raw, codec.DecodeFormat(format.JSONFormat))
	if err != nil {
		return nil, zero, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
	}
	env, err := s.binder.Read(n)
	if err != nil {
		return nil, zero, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
	}
	return n, env, nil
}

func (s *Server[T]) check(params json.RawMessage) (*CheckResult, error) {
	var p CheckParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
	}
	n, env, err := s.read(p.Envelope)
	if err != nil {
		return nil, err
	}
	names, err := s.binder.Names(env)
	if err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
	}
	res := &CheckResult{Version: env.Version, Names: names}
	if p.Where == "" {
		return res, nil
	}
	q, err := query.Compile(p.Where)
	if err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
	}
	res.Selected = []int{}
	data, _ := n.Get("data")
	for i, name := range names {
		// match on the canonical element tree
		en, err := bind.NewContext(s.binder.Registry()).WriteValue(reflect.ValueOf(env.Data[i]))
		if err != nil {
			return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
		}
		ok, err := q.Match(name, en)
		if err != nil {
			return nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "at %s: %v", data.Values[i].Path(), err)
		}
		if ok {
			res.Selected = append(res.Selected, i)
		}
	}
	return res, nil
}

func (s *Server[T]) normalize(params json.RawMessage) (json.RawMessage, error) {
	var p NormalizeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
	}
	_, env, err := s.read(p.Envelope)
	if err != nil {
		return nil, err
	}
	n, err := s.binder.Write(env)
	if err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
	}
	d, err := codec.MarshalJSON(n)
	if err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
	}
	return json.RawMessage(d), nil
}

func (s *Server[T]) types() ([]TypeInfo, error) {
	cat := s.binder.Catalog()
	reg := s.binder.Registry()
	var res []TypeInfo
	for _, name := range cat.Names() {
		t, _ := cat.TypeOf(name)
		m, err := reg.Resolve(t)
		if err != nil {
			return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
		}
		ps, err := bind.ResourceParameters(reg, m)
		if err != nil {
			return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
		}
		info := TypeInfo{Name: name, Parameters: []string{}}
		for _, p := range ps {
			info.Parameters = append(info.Parameters, p.Name)
		}
		res = append(res, info)
	}
	return res, nil
}
