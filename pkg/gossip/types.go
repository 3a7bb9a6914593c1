// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package gossip

import (
	"encoding/hex"
	"fmt"
)

// NodeID is a 33-byte compressed secp256k1 public key, stored canonically as
// lowercase hex (spec.md §3 "Gossip node").
type NodeID string

func newNodeID(raw [33]byte) NodeID {
	return NodeID(hex.EncodeToString(raw[:]))
}

// ShortChannelID packs the blockheight/txindex/outputindex triple the
// Lightning wire format encodes as a single big-endian uint64.
type ShortChannelID uint64

// BlockHeight returns the block-height component of scid.
func (scid ShortChannelID) BlockHeight() uint32 { return uint32(scid >> 40) }

// TxIndex returns the transaction-index component of scid.
func (scid ShortChannelID) TxIndex() uint32 { return uint32(scid>>16) & 0xFFFFFF }

// OutputIndex returns the output-index component of scid.
func (scid ShortChannelID) OutputIndex() uint16 { return uint16(scid) }

// String renders scid in the conventional "height x tx x output" form.
func (scid ShortChannelID) String() string {
	return uint64ToSCIDString(scid)
}

// Node is a gossip graph vertex: an optional node-announcement payload and
// the set of channels it participates in (spec.md §3 "Gossip node").
type Node struct {
	ID NodeID

	// Announcement is the raw node_announcement payload last received for
	// this node, or nil if the node is only known via a channel endpoint.
	Announcement []byte

	// Channels lists the short-channel-ids of every channel this node is an
	// endpoint of, in arrival order.
	Channels []ShortChannelID
}

// Direction selects one of the two directional updates of a channel.
// Per spec.md §9's resolved open question, it is the low bit of a
// channel_update's channel_flags byte.
type Direction uint8

// The two channel directions.
const (
	DirectionNodeOneToTwo Direction = 0
	DirectionNodeTwoToOne Direction = 1
)

// ChannelUpdate is a parsed channel_update message (spec.md §4.4.1 type 258).
type ChannelUpdate struct {
	ShortChannelID  ShortChannelID
	Timestamp       uint32
	MessageFlags    uint8
	ChannelFlags    uint8
	CLTVExpiryDelta uint16
	HTLCMinimumMsat uint64
	FeeBaseMsat     uint32
	FeeProportional uint32
	HTLCMaximumMsat uint64
	Private         bool

	// Raw is the full payload as received, preserved per the decoder's
	// byte-preserving contract (spec.md §4 overview Non-goals).
	Raw []byte
}

// Direction reports which directional slot this update belongs in.
func (u *ChannelUpdate) Direction() Direction {
	return Direction(u.ChannelFlags & 0x1)
}

// Channel is a gossip graph edge (spec.md §3 "Gossip channel"): the raw
// channel-announcement payload, its two endpoints stored in a stable order,
// an optional satoshi amount, and up to two directional updates.
type Channel struct {
	ShortChannelID ShortChannelID
	Announcement   []byte
	NodeOne        NodeID
	NodeTwo        NodeID
	AmountSat      *uint64
	Updates        [2]*ChannelUpdate
	Private        bool
}

// Endpoints returns the channel's two endpoint node ids in stable order.
func (c *Channel) Endpoints() (NodeID, NodeID) { return c.NodeOne, c.NodeTwo }

func uint64ToSCIDString(scid ShortChannelID) string {
	return fmt.Sprintf("%dx%dx%d", scid.BlockHeight(), scid.TxIndex(), scid.OutputIndex())
}
