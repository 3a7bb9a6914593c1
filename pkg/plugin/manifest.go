// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin

// FlagType is the type tag of a [Option], matching spec.md §3.
type FlagType string

// The flag types a plugin option may declare.
const (
	FlagFlag   FlagType = "flag"
	FlagBool   FlagType = "bool"
	FlagInt    FlagType = "int"
	FlagString FlagType = "string"
)

// Option is a plugin option descriptor (spec.md §3 "Plugin option"). Value is
// late-bound: it holds the default until the "init" handler overwrites it
// with whatever the daemon supplied at "init" time.
type Option struct {
	Name        string   `json:"name"`
	Type        FlagType `json:"type"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`

	// Value is the late-bound value. Before "init" it equals Default.
	Value any `json:"-"`
}

// MethodDescriptor is the public description of a registered method
// (spec.md §3 "Method descriptor").
type MethodDescriptor struct {
	Name        string `json:"name"`
	Usage       string `json:"usage,omitempty"`
	Description string `json:"description,omitempty"`
	LongDesc    string `json:"long_description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// HookDescriptor is the public description of a registered hook (spec.md §3
// "Hook descriptor").
type HookDescriptor struct {
	Name   string   `json:"name"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// manifestOption is the wire shape of an option in the getmanifest response.
type manifestOption struct {
	Name        string   `json:"name"`
	Type        FlagType `json:"type"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
}

// manifestMethod is the wire shape of a method in the getmanifest response.
type manifestMethod struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
	LongDesc    string `json:"long_description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// manifestHook is the wire shape of a hook in the getmanifest response.
type manifestHook struct {
	Name   string   `json:"name"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// ManifestResult is the JSON object returned from "getmanifest" (spec.md
// §4.3.3, state PreManifest).
type ManifestResult struct {
	Options       []manifestOption `json:"options"`
	RPCMethods    []manifestMethod `json:"rpcmethods"`
	Subscriptions []string         `json:"subscriptions"`
	Hooks         []manifestHook   `json:"hooks"`
	Dynamic       bool             `json:"dynamic"`
}

// ProxyInfo describes the daemon's configured SOCKS proxy, part of the init
// [Configuration].
type ProxyInfo struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Configuration is the plugin configuration block received at "init"
// (spec.md §3 "Plugin configuration").
type Configuration struct {
	LightningDir   string            `json:"lightning-dir"`
	RPCFile        string            `json:"rpc-file"`
	Startup        bool              `json:"startup"`
	Network        string            `json:"network"`
	FeatureSet     map[string]string `json:"feature_set,omitempty"`
	Proxy          *ProxyInfo        `json:"proxy,omitempty"`
	TorV3Enabled   *bool             `json:"torv3-enabled,omitempty"`
	AlwaysUseProxy *bool             `json:"always_use_proxy,omitempty"`
}

// initParams is the wire shape of the "init" method's parameters.
type initParams struct {
	Options       map[string]any `json:"options"`
	Configuration Configuration  `json:"configuration"`
}
