// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package gossip

import "errors"

var (
	// ErrBadVersion is returned when the store's leading version byte's top
	// three bits do not equal the major version this decoder understands.
	ErrBadVersion = errors.New("gossip: invalid gossip store version")

	// ErrOrphanAmount is returned when a channel_amount (4101) record is
	// encountered with no preceding channel_announcement for its current
	// short-channel-id (spec.md §4.4.2).
	ErrOrphanAmount = errors.New("gossip: channel amount record with no preceding channel announcement")

	// ErrTruncatedPayload is returned when fewer than the declared len bytes
	// remain in the stream for a record's payload.
	ErrTruncatedPayload = errors.New("gossip: truncated record payload")

	// ErrTruncatedMessage is returned when a payload is shorter than the
	// fixed fields its message type requires.
	ErrTruncatedMessage = errors.New("gossip: truncated wire message")
)
