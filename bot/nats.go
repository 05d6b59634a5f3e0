package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/game"
)

const requestTimeout = 2 * time.Second

func errorResponse(message string, err error) Response {
	if err != nil {
		message = fmt.Sprintf("%s: %s", message, err.Error())
	}
	return Response{Action: game.Stay.String(), Error: message}
}

// handle answers one request. A game-over message resets the bot and is
// answered with stay.
func (b *Bot) handle(ctx context.Context, data []byte) Response {
	msg := &game.Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return errorResponse("could not parse request", err)
	}
	if msg.GameOver {
		b.EndGame()
		return Response{Action: game.Stay.String()}
	}
	resp, err := b.Decide(ctx, msg)
	if err != nil {
		return errorResponse("could not choose a move", err)
	}
	return resp
}

// ServeNATS answers turn requests arriving on subject until ctx is done.
// Requests are handled one at a time.
func (b *Bot) ServeNATS(ctx context.Context, nc *nats.Conn, subject string) error {
	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("turn-request")
		data, err := json.Marshal(b.handle(ctx, m.Data))
		if err != nil {
			// Should never happen, but the caller still needs an answer.
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", subject).Msg("listening")

	<-ctx.Done()
	return sub.Drain()
}

// Client asks a bot served over NATS for moves.
type Client struct {
	nc      *nats.Conn
	subject string
}

func NewClient(nc *nats.Conn, subject string) *Client {
	return &Client{nc: nc, subject: subject}
}

func (c *Client) Decide(ctx context.Context, msg *game.Message) (Response, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return Response{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.subject, data)
	if err != nil {
		if lerr := c.nc.LastError(); lerr != nil {
			log.Error().Err(lerr).Msg("nats-last-error")
		}
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(res.Data, &resp); err != nil {
		return Response{}, err
	}
	if resp.Error != "" {
		return resp, errors.New("bot returned: " + resp.Error)
	}
	return resp, nil
}
