// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package gossip decodes a Core Lightning gossip_store file (spec.md §4.4):
// a length-prefixed binary log of peer-discovery messages, replayed into an
// in-memory node/channel graph. The decoder is a byte-preserving parser, not
// an interpreter of the messages' economic meaning (spec.md §1 Non-goals).
package gossip

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Store is the in-memory graph built by decoding a gossip_store stream.
type Store struct {
	Version uint8

	Nodes    map[NodeID]*Node
	Channels map[ShortChannelID]*Channel

	// Orphans holds channel_update records received before their channel's
	// announcement, keyed by short-channel-id (spec.md §4.4.3).
	Orphans map[ShortChannelID][]*ChannelUpdate
}

func newStore(version uint8) *Store {
	return &Store{
		Version:  version,
		Nodes:    make(map[NodeID]*Node),
		Channels: make(map[ShortChannelID]*Channel),
		Orphans:  make(map[ShortChannelID][]*ChannelUpdate),
	}
}

// recordHeader is the 12-byte header preceding every gossip_store record
// (spec.md §4.4.1).
type recordHeader struct {
	flags uint16
	len   uint16
	crc   uint32
	ts    uint32
}

// Load opens path and decodes it as a gossip_store file.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gossip: open store: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a gossip_store byte stream from r and replays it into a
// [Store], following the algorithm of spec.md §4.4.2.
func Decode(r io.Reader) (*Store, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var verByte [1]byte
	if _, err := io.ReadFull(br, verByte[:]); err != nil {
		return nil, fmt.Errorf("gossip: read version byte: %w", err)
	}

	if verByte[0]&storeMajorVersionMask != storeMajorVersion {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadVersion, verByte[0])
	}

	store := newStore(verByte[0])

	var (
		currentSCID ShortChannelID
		haveCurrent bool
	)

	for {
		header, err := readRecordHeader(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return store, nil
			}

			return nil, err
		}

		if header.flags&headerDeletedBit != 0 {
			if err := discard(br, int(header.len)); err != nil {
				return nil, err
			}

			continue
		}

		payload := make([]byte, header.len)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncatedPayload, err)
		}

		if len(payload) < 2 {
			continue // too short to carry a message type; nothing to dispatch on
		}

		msgType := binary.BigEndian.Uint16(payload[:2])

		switch msgType {
		case wireChannelAnnouncement:
			parsed, err := parseChannelAnnouncement(payload)
			if err != nil {
				return nil, err
			}

			ch := store.addChannel(parsed.ShortChannelID, parsed.NodeOne, parsed.NodeTwo, payload, false)
			currentSCID, haveCurrent = ch.ShortChannelID, true

		case wireGossipStorePrivChannel:
			parsed, sats, err := parsePrivateChannelAnnouncement(payload)
			if err != nil {
				return nil, err
			}

			ch := store.addChannel(parsed.ShortChannelID, parsed.NodeOne, parsed.NodeTwo, payload, true)
			ch.AmountSat = &sats
			currentSCID, haveCurrent = ch.ShortChannelID, true

		case wireGossipStoreChannelAmt:
			if !haveCurrent {
				return nil, ErrOrphanAmount
			}

			ch, ok := store.Channels[currentSCID]
			if !ok {
				return nil, ErrOrphanAmount
			}

			amt, err := parseChannelAmount(payload)
			if err != nil {
				return nil, err
			}

			ch.AmountSat = &amt

		case wireNodeAnnouncement:
			parsed, err := parseNodeAnnouncement(payload)
			if err != nil {
				return nil, err
			}

			store.ensureNode(parsed.NodeID).Announcement = payload

		case wireChannelUpdate:
			upd, err := parseChannelUpdate(payload)
			if err != nil {
				return nil, err
			}

			store.applyChannelUpdate(upd)

		case wireGossipStorePrivUpdate:
			upd, err := parsePrivateChannelUpdate(payload)
			if err != nil {
				return nil, err
			}

			upd.Private = true
			store.applyChannelUpdate(upd)

		case wireGossipStoreDeleteChan:
			scid, err := parseDeleteChan(payload)
			if err != nil {
				return nil, err
			}

			store.deleteChannel(scid)

			if haveCurrent && scid == currentSCID {
				haveCurrent = false
			}

		case wireGossipStoreEnded:
			return store, nil

		case wireGossipStoreChanDying:
			// Informational only; the payload has already been consumed by
			// virtue of the outer length framing (spec.md §4.4.2).

		default:
			// Unknown type: the record framing preserves stream position
			// regardless, so skip and continue.
		}
	}
}

func readRecordHeader(r io.Reader) (recordHeader, error) {
	var buf [12]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return recordHeader{}, io.EOF
		}

		return recordHeader{}, fmt.Errorf("gossip: read record header: %w", err)
	}

	return recordHeader{
		flags: binary.BigEndian.Uint16(buf[0:2]),
		len:   binary.BigEndian.Uint16(buf[2:4]),
		crc:   binary.BigEndian.Uint32(buf[4:8]),
		ts:    binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

func discard(r io.Reader, n int) error {
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return fmt.Errorf("%w: %w", ErrTruncatedPayload, err)
	}

	return nil
}

func (s *Store) ensureNode(id NodeID) *Node {
	n, ok := s.Nodes[id]
	if !ok {
		n = &Node{ID: id}
		s.Nodes[id] = n
	}

	return n
}

func (s *Store) addChannel(scid ShortChannelID, one, two NodeID, raw []byte, private bool) *Channel {
	s.ensureNode(one).Channels = append(s.ensureNode(one).Channels, scid)
	s.ensureNode(two).Channels = append(s.ensureNode(two).Channels, scid)

	ch := &Channel{
		ShortChannelID: scid,
		Announcement:   raw,
		NodeOne:        one,
		NodeTwo:        two,
		Private:        private,
	}
	s.Channels[scid] = ch

	if pending, ok := s.Orphans[scid]; ok {
		for _, upd := range pending {
			ch.Updates[upd.Direction()] = upd
		}

		delete(s.Orphans, scid)
	}

	return ch
}

func (s *Store) applyChannelUpdate(upd *ChannelUpdate) {
	if ch, ok := s.Channels[upd.ShortChannelID]; ok {
		ch.Updates[upd.Direction()] = upd

		return
	}

	s.Orphans[upd.ShortChannelID] = append(s.Orphans[upd.ShortChannelID], upd)
}

func (s *Store) deleteChannel(scid ShortChannelID) {
	ch, ok := s.Channels[scid]
	if !ok {
		return
	}

	delete(s.Channels, scid)

	for _, id := range []NodeID{ch.NodeOne, ch.NodeTwo} {
		node, ok := s.Nodes[id]
		if !ok {
			continue
		}

		node.Channels = removeSCID(node.Channels, scid)
	}
}

func removeSCID(list []ShortChannelID, target ShortChannelID) []ShortChannelID {
	out := list[:0]

	for _, id := range list {
		if id != target {
			out = append(out, id)
		}
	}

	return out
}
