// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin

import (
	"encoding/json"
	"fmt"
	"sort"
)

// handleGetManifest implements the "getmanifest" method (spec.md §4.3.3,
// state PreManifest): it enumerates every registered option, method, hook,
// and subscription.
func (p *Plugin[T]) handleGetManifest(_ json.RawMessage) (*ManifestResult, error) {
	result := &ManifestResult{
		Options:       make([]manifestOption, 0, len(p.options)),
		RPCMethods:    make([]manifestMethod, 0, len(p.methods)),
		Subscriptions: make([]string, 0, len(p.notifications)),
		Hooks:         make([]manifestHook, 0, len(p.hooks)),
		Dynamic:       p.Dynamic,
	}

	for _, opt := range p.options {
		result.Options = append(result.Options, manifestOption{
			Name:        opt.Name,
			Type:        opt.Type,
			Default:     opt.Default,
			Description: opt.Description,
			Deprecated:  opt.Deprecated,
		})
	}

	for _, m := range p.methods {
		result.RPCMethods = append(result.RPCMethods, manifestMethod{
			Name:        m.desc.Name,
			Usage:       m.desc.Usage,
			Description: m.desc.Description,
			LongDesc:    m.desc.LongDesc,
			Deprecated:  m.desc.Deprecated,
		})
	}

	for event := range p.notifications {
		result.Subscriptions = append(result.Subscriptions, event)
	}

	for _, h := range p.hooks {
		result.Hooks = append(result.Hooks, manifestHook{Name: h.desc.Name, Before: h.desc.Before, After: h.desc.After})
	}

	// Stable ordering makes the manifest response deterministic across runs,
	// which matters for golden-file style tests against it.
	sort.Slice(result.Options, func(i, j int) bool { return result.Options[i].Name < result.Options[j].Name })
	sort.Slice(result.RPCMethods, func(i, j int) bool { return result.RPCMethods[i].Name < result.RPCMethods[j].Name })
	sort.Slice(result.Hooks, func(i, j int) bool { return result.Hooks[i].Name < result.Hooks[j].Name })
	sort.Strings(result.Subscriptions)

	return result, nil
}

// handleInit implements the "init" method (spec.md §4.3.3, state PreInit):
// parse the configuration block, store option values, and invoke OnInit.
func (p *Plugin[T]) handleInit(params json.RawMessage) (any, error) {
	var in initParams
	if err := json.Unmarshal(params, &in); err != nil {
		return nil, fmt.Errorf("%w: invalid init params: %w", errInvalidInit, err)
	}

	p.config = in.Configuration

	for name, value := range in.Options {
		opt, ok := p.options[name]
		if !ok {
			continue // the daemon may echo options this plugin never declared
		}

		converted, err := convertOptionValue(opt.Type, value)
		if err != nil {
			return nil, fmt.Errorf("%w: option %s: %w", errInvalidInit, name, err)
		}

		opt.Value = converted
	}

	if p.OnInit == nil {
		return struct{}{}, nil
	}

	result, err := p.OnInit(p)
	if err != nil {
		return nil, fmt.Errorf("on_init callback failed: %w", err)
	}

	return result, nil
}

// convertOptionValue coerces a JSON-decoded option value (always one of
// string/float64/bool/nil after json.Unmarshal into `any`) to the Go type
// implied by t.
func convertOptionValue(t FlagType, value any) (any, error) {
	switch t {
	case FlagFlag, FlagBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case nil:
			return false, nil
		default:
			return nil, fmt.Errorf("%w: expected bool, got %T", errInvalidOptionValue, value)
		}
	case FlagInt:
		switch v := value.(type) {
		case float64:
			return int64(v), nil
		case string:
			var n int64
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
				return nil, fmt.Errorf("%w: %w", errInvalidOptionValue, err)
			}

			return n, nil
		default:
			return nil, fmt.Errorf("%w: expected int, got %T", errInvalidOptionValue, value)
		}
	case FlagString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", errInvalidOptionValue, value)
		}

		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown option type %q", errInvalidOptionValue, t)
	}
}
