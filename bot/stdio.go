package bot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/game"
)

const maxMessageSize = 1 << 20

// StdioProvider speaks one JSON object per line. The first line the game
// server sends is a handshake and carries no position; it is skipped.
type StdioProvider struct {
	scanner   *bufio.Scanner
	w         io.Writer
	handshake sync.Once
	mu        sync.Mutex
}

func NewStdioProvider(r io.Reader, w io.Writer) *StdioProvider {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	return &StdioProvider{scanner: sc, w: w}
}

func (p *StdioProvider) next() ([]byte, error) {
	for p.scanner.Scan() {
		line := p.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (p *StdioProvider) Receive(ctx context.Context) (*game.Message, error) {
	var err error
	p.handshake.Do(func() {
		var line []byte
		line, err = p.next()
		if err == nil {
			log.Debug().Int("bytes", len(line)).Msg("handshake-received")
		}
	})
	if err != nil {
		return nil, err
	}
	line, err := p.next()
	if err != nil {
		return nil, err
	}
	msg := &game.Message{}
	if err := json.Unmarshal(line, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrMalformedMessage, err)
	}
	return msg, nil
}

func (p *StdioProvider) Send(ctx context.Context, r Response) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.w.Write(append(data, '\n'))
	return err
}
