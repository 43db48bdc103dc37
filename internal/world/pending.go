package world

import (
	"context"
	"time"

	"wowbridge/internal/bridge"
	"wowbridge/internal/wowerr"
)

// requestTimeout bounds how long a who/guild-MOTD request waits for its
// matching response before the caller gets an empty result.
const requestTimeout = 10 * time.Second

// pendingRequests holds the single in-flight who and guild-MOTD request
// (fields who and guildMOTD); the world session only ever has one outstanding request per
// kind at a time, matching the source's synchronous-from-the-caller's-view
// request/response model.
type pendingRequests struct {
	who        chan []bridge.WhoEntry
	guildMOTD  chan string
}

func newPendingRequests() *pendingRequests {
	return &pendingRequests{}
}

// awaitWho blocks until a SMSG_WHO response arrives, ctx is done, or the
// 10-second timeout elapses, whichever comes first. A timeout or
// cancellation yields an empty result rather than closing the session
// (wowerr.RequestTimeout is contained to the caller). deliver runs on the
// session goroutine (via Client.enqueue) and is responsible for recording
// ch as the pending request before sending the query, so p.who is only
// ever touched from that one goroutine.
func (p *pendingRequests) awaitWho(ctx context.Context, deliver func(ch chan []bridge.WhoEntry)) ([]bridge.WhoEntry, error) {
	ch := make(chan []bridge.WhoEntry, 1)
	deliver(ch)

	select {
	case result := <-ch:
		return result, nil
	case <-time.After(requestTimeout):
		return nil, wowerr.New(wowerr.RequestTimeout, "who query timed out")
	case <-ctx.Done():
		return nil, wowerr.Wrap(wowerr.RequestTimeout, "who query canceled", ctx.Err())
	}
}

func (p *pendingRequests) resolveWho(result []bridge.WhoEntry) {
	if p.who != nil {
		select {
		case p.who <- result:
		default:
		}
		p.who = nil
	}
}

// awaitGuildMOTD mirrors awaitWho for the guild-MOTD query; see its
// comment for the session-goroutine synchronization contract.
func (p *pendingRequests) awaitGuildMOTD(ctx context.Context, deliver func(ch chan string)) (string, error) {
	ch := make(chan string, 1)
	deliver(ch)

	select {
	case result := <-ch:
		return result, nil
	case <-time.After(requestTimeout):
		return "", wowerr.New(wowerr.RequestTimeout, "guild MOTD query timed out")
	case <-ctx.Done():
		return "", wowerr.Wrap(wowerr.RequestTimeout, "guild MOTD query canceled", ctx.Err())
	}
}

func (p *pendingRequests) resolveGuildMOTD(result string) {
	if p.guildMOTD != nil {
		select {
		case p.guildMOTD <- result:
		default:
		}
		p.guildMOTD = nil
	}
}
