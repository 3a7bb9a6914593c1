// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package gossip_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/anttikivi/cln/pkg/gossip"
)

// buf is a tiny byte-builder fixture for assembling gossip_store streams in
// tests, mirroring the raw-bytes style of the socket client's own fixtures.
type buf struct{ b bytes.Buffer }

func (w *buf) u8(v uint8)   { w.b.WriteByte(v) }
func (w *buf) u16(v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); w.b.Write(b[:]) }
func (w *buf) u32(v uint32) { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); w.b.Write(b[:]) }
func (w *buf) u64(v uint64) { var b [8]byte; binary.BigEndian.PutUint64(b[:], v); w.b.Write(b[:]) }
func (w *buf) raw(b []byte) { w.b.Write(b) }
func (w *buf) zeros(n int)  { w.b.Write(make([]byte, n)) }

// record appends a gossip_store header (flags/len/crc/ts) followed by
// payload, computing len from the payload itself.
func (w *buf) record(flags uint16, payload []byte) {
	w.u16(flags)
	w.u16(uint16(len(payload)))
	w.u32(0) // crc, not validated by the decoder
	w.u32(0) // timestamp, opaque to the decoder
	w.raw(payload)
}

func channelAnnouncementPayload(scid uint64, nodeOne, nodeTwo byte) []byte {
	var p buf
	p.u16(256)
	p.zeros(64 * 4) // four signatures
	p.u16(0)        // empty feature vector
	p.zeros(32)     // chain_hash
	p.u64(scid)

	var one, two [33]byte
	one[0], two[0] = nodeOne, nodeTwo
	p.raw(one[:])
	p.raw(two[:])
	p.zeros(33 * 2) // bitcoin_key_1, bitcoin_key_2

	return p.b.Bytes()
}

func channelAmountPayload(sats uint64) []byte {
	var p buf
	p.u16(4101)
	p.u64(sats)

	return p.b.Bytes()
}

func endOfStorePayload() []byte {
	var p buf
	p.u16(4105)
	p.u64(0)

	return p.b.Bytes()
}

func channelUpdatePayload(scid uint64, channelFlags uint8) []byte {
	var p buf
	p.u16(258)
	p.zeros(64) // signature
	p.zeros(32) // chain_hash
	p.u64(scid)
	p.u32(1000) // timestamp
	p.u8(0)     // message_flags
	p.u8(channelFlags)
	p.u16(144)          // cltv_expiry_delta
	p.u64(1000)         // htlc_minimum_msat
	p.u32(1)            // fee_base_msat
	p.u32(10)           // fee_proportional_millionths
	p.u64(100000000000) // htlc_maximum_msat

	return p.b.Bytes()
}

func nodeAnnouncementPayload(node byte) []byte {
	var p buf
	p.u16(257)
	p.zeros(64) // signature
	p.u16(0)    // empty feature vector
	p.u32(1234) // timestamp

	var id [33]byte
	id[0] = node
	p.raw(id[:])

	p.zeros(3)  // rgb_color
	p.zeros(32) // alias
	p.u16(0)    // empty address vector

	return p.b.Bytes()
}

func TestDecodeScenario6(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0, channelAnnouncementPayload(1, 0xAA, 0xBB))
	stream.record(0, channelAmountPayload(1000000))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(store.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(store.Nodes))
	}

	ch, ok := store.Channels[gossip.ShortChannelID(1)]
	if !ok {
		t.Fatal("channel 1 missing")
	}

	one, two := ch.Endpoints()
	if _, ok := store.Nodes[one]; !ok {
		t.Fatalf("endpoint %s not in node map", one)
	}

	if _, ok := store.Nodes[two]; !ok {
		t.Fatalf("endpoint %s not in node map", two)
	}

	if ch.AmountSat == nil || *ch.AmountSat != 1000000 {
		t.Fatalf("amount = %v, want 1000000", ch.AmountSat)
	}
}

func TestDecodeOrphanUpdateAttachesOnceChannelArrives(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0, channelUpdatePayload(7, 0)) // arrives before its channel
	stream.record(0, channelAnnouncementPayload(7, 0x01, 0x02))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(store.Orphans) != 0 {
		t.Fatalf("orphans = %d, want 0 (update should have attached)", len(store.Orphans))
	}

	ch := store.Channels[gossip.ShortChannelID(7)]
	if ch.Updates[gossip.DirectionNodeOneToTwo] == nil {
		t.Fatal("expected direction-0 update to be attached")
	}
}

func TestDecodeOrphanUpdateRemainsWithoutChannel(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0, channelUpdatePayload(99, 1))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	pending, ok := store.Orphans[gossip.ShortChannelID(99)]
	if !ok || len(pending) != 1 {
		t.Fatalf("orphans[99] = %v, want exactly one pending update", pending)
	}
}

func TestDecodeDeletedRecordContributesNothing(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0x8000, channelAnnouncementPayload(5, 0x01, 0x02))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(store.Channels) != 0 || len(store.Nodes) != 0 {
		t.Fatalf("deleted record was applied: channels=%d nodes=%d", len(store.Channels), len(store.Nodes))
	}
}

func TestDecodeRatelimitedRecordStillApplies(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0x2000, channelAnnouncementPayload(3, 0x01, 0x02))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if _, ok := store.Channels[gossip.ShortChannelID(3)]; !ok {
		t.Fatal("ratelimited channel announcement should still be applied")
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0xE0) // top three bits all set, not the 0b000 major version

	_, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if !errors.Is(err, gossip.ErrBadVersion) {
		t.Fatalf("err = %v, want ErrBadVersion", err)
	}
}

func TestDecodeChannelAmountWithoutPrecedingAnnouncementFails(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0, channelAmountPayload(500))

	_, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if !errors.Is(err, gossip.ErrOrphanAmount) {
		t.Fatalf("err = %v, want ErrOrphanAmount", err)
	}
}

func TestDecodeNodeAnnouncementAttaches(t *testing.T) {
	t.Parallel()

	var stream buf
	stream.u8(0x00)
	stream.record(0, channelAnnouncementPayload(1, 0x01, 0x02))
	stream.record(0, nodeAnnouncementPayload(0x01))
	stream.record(0, endOfStorePayload())

	store, err := gossip.Decode(bytes.NewReader(stream.b.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	ch := store.Channels[gossip.ShortChannelID(1)]
	node := store.Nodes[ch.NodeOne]

	if node.Announcement == nil {
		t.Fatal("expected node announcement to be stored")
	}
}
