package bot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/game"
)

const (
	dialAttempts = 5
	writeWait    = 2 * time.Second
)

// WebsocketProvider exchanges JSON messages with a game server over a
// websocket.
type WebsocketProvider struct {
	conn *websocket.Conn
}

// DialWebsocket connects to url, retrying with backoff while the server
// comes up.
func DialWebsocket(ctx context.Context, url string) (*WebsocketProvider, error) {
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(dialAttempts),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("websocket-dial-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	log.Info().Str("url", url).Msg("websocket-connected")
	return &WebsocketProvider{conn: conn}, nil
}

func (p *WebsocketProvider) Receive(ctx context.Context) (*game.Message, error) {
	if dl, ok := ctx.Deadline(); ok {
		p.conn.SetReadDeadline(dl)
	}
	msg := &game.Message{}
	if err := p.conn.ReadJSON(msg); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, err
	}
	return msg, nil
}

func (p *WebsocketProvider) Send(ctx context.Context, r Response) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(r)
}

// Close says goodbye to the server and closes the connection.
func (p *WebsocketProvider) Close() error {
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return p.conn.Close()
}
