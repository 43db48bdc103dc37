// Package reconnect drives the realm→world hand-off cycle repeatedly,
// applying the fixed backoff and fatal/transient classification from the
// error propagation rules: it holds at most one live client at a time and
// never retains state across reconnects beyond the immutable identity.
package reconnect

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"wowbridge/internal/bridge"
	"wowbridge/internal/identity"
	"wowbridge/internal/realm"
	"wowbridge/internal/wowerr"
	"wowbridge/internal/world"
)

// backoffDelay is the fixed wait between reconnect attempts after a
// transport failure or a non-fatal auth code.
const backoffDelay = 10 * time.Second

// Controller owns the realm→world session cycle. It implements
// bridge.Core by forwarding to whichever world.Client is currently live,
// so the host can hold a Controller for the lifetime of the process
// across any number of reconnects.
type Controller struct {
	ident identity.Session
	host  bridge.Host
	log   zerolog.Logger

	live atomic.Pointer[world.Client]
}

// New builds a controller for ident, delivering events to host.
func New(ident identity.Session, host bridge.Host, log zerolog.Logger) *Controller {
	return &Controller{ident: ident, host: host, log: log}
}

// Run drives reconnect cycles until ctx is canceled or a fatal error
// occurs, in which case it returns that error to the caller (the CLI maps
// it to an exit code).
func (c *Controller) Run(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		if err == nil {
			return nil // shutdown requested; clean exit
		}
		if ctx.Err() != nil {
			return nil
		}

		kind, _ := errKind(err)
		c.host.OnDisconnected(err)
		if kind.IsFatal() {
			return err
		}

		c.log.Warn().Err(err).Dur("retry_in", backoffDelay).Msg("session ended, reconnecting")
		select {
		case <-time.After(backoffDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Controller) runOnce(ctx context.Context) error {
	realmClient, err := realm.Dial(ctx, c.ident, c.log)
	if err != nil {
		return err
	}
	hand, err := realmClient.Run(ctx)
	_ = realmClient.Close()
	if err != nil {
		return err
	}

	worldClient, err := world.Dial(ctx, c.ident, hand, c.host, c.log)
	if err != nil {
		return err
	}
	c.live.Store(worldClient)
	defer c.live.Store(nil)
	defer worldClient.Close()

	return worldClient.Run(ctx)
}

func errKind(err error) (wowerr.Kind, bool) {
	if e, ok := err.(*wowerr.Error); ok {
		return e.Kind, true
	}
	return 0, false
}

// SendChat implements bridge.Core by forwarding to the live world session,
// if any.
func (c *Controller) SendChat(kind bridge.ChatKind, channel, text string) error {
	client := c.live.Load()
	if client == nil {
		return wowerr.New(wowerr.TransportError, "no live world session")
	}
	return client.SendChat(kind, channel, text)
}

// QueryWho implements bridge.Core.
func (c *Controller) QueryWho(ctx context.Context, namePrefix string) ([]bridge.WhoEntry, error) {
	client := c.live.Load()
	if client == nil {
		return nil, wowerr.New(wowerr.TransportError, "no live world session")
	}
	return client.QueryWho(ctx, namePrefix)
}

// QueryGuildMOTD implements bridge.Core.
func (c *Controller) QueryGuildMOTD(ctx context.Context) (string, error) {
	client := c.live.Load()
	if client == nil {
		return "", wowerr.New(wowerr.TransportError, "no live world session")
	}
	return client.QueryGuildMOTD(ctx)
}

// Shutdown implements bridge.Core: closes the live session, which causes
// Run to return nil and the controller loop to exit without reconnecting.
func (c *Controller) Shutdown() {
	if client := c.live.Load(); client != nil {
		client.Shutdown()
	}
}
