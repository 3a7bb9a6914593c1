// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
)

// frameDelimiter marks an inbound message boundary on the plugin's stdin, per
// spec.md §4.3.4 and §6: "input is delimited by \n\n". This is the one piece
// of wire compatibility with the daemon that cannot be loosened to plain
// streaming JSON decoding, even though a JSON decoder alone would happily
// read consecutive values — the daemon's own writer pads with a blank line
// and some daemon versions rely on the reader waiting for it.
var frameDelimiter = []byte("\n\n")

// frameReader buffers inbound bytes from r and yields one message payload
// per delimiter, tolerating partial reads and extra whitespace between
// messages (spec.md §6).
type frameReader struct {
	r   *bufio.Reader
	buf bytes.Buffer
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// next blocks until one full frame is available, or returns io.EOF once the
// underlying reader is exhausted and no partial frame remains.
func (fr *frameReader) next() ([]byte, error) {
	for {
		if idx := bytes.Index(fr.buf.Bytes(), frameDelimiter); idx >= 0 {
			payload := make([]byte, idx)
			copy(payload, fr.buf.Bytes()[:idx])
			fr.buf.Next(idx + len(frameDelimiter))

			payload = bytes.TrimSpace(payload)
			if len(payload) == 0 {
				continue // tolerate stray blank frames between messages
			}

			return payload, nil
		}

		chunk := make([]byte, 4096)

		n, err := fr.r.Read(chunk)
		if n > 0 {
			fr.buf.Write(chunk[:n])
		}

		if err != nil {
			if err == io.EOF && fr.buf.Len() > 0 {
				rest := bytes.TrimSpace(fr.buf.Bytes())
				fr.buf.Reset()

				if len(rest) == 0 {
					return nil, io.EOF
				}

				return rest, nil
			}

			return nil, fmt.Errorf("plugin: read frame: %w", err)
		}
	}
}

// frameWriter writes outbound messages to w, one JSON value per frame. The
// plugin's stdout is a single shared sink (spec.md §5): every write of one
// frame is serialized under mu so a response and an interleaved log record
// never partially overlap each other.
type frameWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newFrameWriter(w io.Writer) *frameWriter {
	return &frameWriter{w: w}
}

// write emits data followed by a blank line and flushes immediately.
func (fw *frameWriter) write(data []byte) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(data); err != nil {
		return fmt.Errorf("plugin: write frame: %w", err)
	}

	if _, err := fw.w.Write(frameDelimiter); err != nil {
		return fmt.Errorf("plugin: write frame: %w", err)
	}

	if f, ok := fw.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("plugin: flush frame: %w", err)
		}
	}

	return nil
}
