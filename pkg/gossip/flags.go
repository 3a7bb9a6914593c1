// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package gossip

// Gossip store format constants (spec.md §4.4.1), mirroring the
// gossipd/gossip_store_wiregen.h constants duplicated in the reference
// implementation's flags module.
const (
	storeMajorVersion     = 0b000 << 5
	storeMajorVersionMask = 0xE0

	// headerDeletedBit marks a record whose payload has been superseded; the
	// record's bytes remain on disk until the store is rewritten but must
	// contribute nothing to the graph.
	headerDeletedBit uint16 = 0x8000
	// headerPushBit marks gossip generated locally rather than received from
	// a peer; it carries no decoding consequence, only provenance.
	headerPushBit uint16 = 0x4000
	// headerRatelimitBit marks gossip that arrived too quickly to relay; the
	// record is still valid and is applied to the graph like any other.
	headerRatelimitBit uint16 = 0x2000
)

// Lightning wire message types recognized inside a gossip_store payload
// (spec.md §4.4.1).
const (
	wireChannelAnnouncement    = 256
	wireNodeAnnouncement       = 257
	wireChannelUpdate          = 258
	wireGossipStoreChannelAmt  = 4101
	wireGossipStorePrivUpdate  = 4102
	wireGossipStoreDeleteChan  = 4103
	wireGossipStorePrivChannel = 4104
	wireGossipStoreEnded       = 4105
	wireGossipStoreChanDying   = 4106
)
