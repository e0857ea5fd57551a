// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/mems_bsp/internal/config"
)

// Stream writes every published message to a serial port as one JSON
// object per line.
type Stream struct {
	mu  sync.Mutex
	w   io.WriteCloser
	enc *json.Encoder
}

// StreamRecord is one line of the stream.
type StreamRecord struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// OpenStream opens the configured serial port.
func OpenStream(sc config.SerialConfig) (*Stream, error) {
	opts := serial.OpenOptions{
		PortName:        sc.Port,
		BaudRate:        sc.Baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", sc.Port, err)
	}
	return NewStream(port), nil
}

func NewStream(w io.WriteCloser) *Stream {
	return &Stream{w: w, enc: json.NewEncoder(w)}
}

// Write encodes data under topic.
func (s *Stream) Write(topic string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(StreamRecord{Topic: topic, Data: data})
}

func (s *Stream) Close() error { return s.w.Close() }
