// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package clncli

import (
	"sort"

	"github.com/anttikivi/cln/internal/exit"
	"github.com/anttikivi/cln/internal/ui"
	"github.com/anttikivi/cln/pkg/gossip"
	"github.com/spf13/cobra"
)

func newGossipCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	cmd := &cobra.Command{
		Use:   "gossip",
		Short: "Inspect a Core Lightning gossip_store file",
	}

	cmd.AddCommand(newGossipDumpCommand())

	return cmd
}

func newGossipDumpCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	return &cobra.Command{
		Use:   "dump <path>",
		Short: "Decode a gossip_store file and print a summary of its graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runGossipDump,
	}
}

func runGossipDump(cmd *cobra.Command, args []string) error {
	_, p := fromContext(cmd)

	store, err := gossip.Load(args[0])
	if err != nil {
		ui.Errorf(p, "failed to decode %s: %v\n", args[0], err)

		return exit.New(exit.CommandRunFailure, err)
	}

	ui.Printf(p, "gossip_store version %d\n", store.Version)
	ui.Printf(p, "nodes: %d\n", len(store.Nodes))
	ui.Printf(p, "channels: %d\n", len(store.Channels))
	ui.Printf(p, "orphaned updates: %d\n\n", len(store.Orphans))

	for _, scid := range sortedChannels(store.Channels) {
		ch := store.Channels[scid]

		one, two := ch.Endpoints()
		ui.Printf(p, "channel %s  %s <-> %s", ch.ShortChannelID, one, two)

		if ch.AmountSat != nil {
			ui.Printf(p, "  %d sat", *ch.AmountSat)
		}

		if ch.Private {
			ui.Printf(p, "  [private]")
		}

		ui.Printf(p, "\n")

		for dir, upd := range ch.Updates {
			if upd == nil {
				continue
			}

			ui.Printf(
				p,
				"  update[%d] fee_base=%d fee_proportional=%d cltv_delta=%d timestamp=%d\n",
				dir, upd.FeeBaseMsat, upd.FeeProportional, upd.CLTVExpiryDelta, upd.Timestamp,
			)
		}
	}

	return nil
}

func sortedChannels(channels map[gossip.ShortChannelID]*gossip.Channel) []gossip.ShortChannelID {
	out := make([]gossip.ShortChannelID, 0, len(channels))
	for scid := range channels {
		out = append(out, scid)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
