package streaming

import "context"

// Callbacks adapts the event sequence for callers that prefer
// callback-style consumption, matching the shape of the UI layer's
// onChunk/onAgentSelected/onError/onDone contract.
//
// Any callback may be nil. Callbacks are invoked sequentially from a single
// goroutine, in event arrival order.
type Callbacks struct {
	OnAgentSelected func(agent, sessionID string)
	OnChunk         func(content string)
	OnError         func(message string)
	OnDone          func()
}

// Consume opens a stream for req and dispatches every event to the matching
// callback, blocking until the stream terminates or ctx is cancelled.
func (c *Client) Consume(ctx context.Context, req Request, cb Callbacks) error {
	stream, err := c.OpenStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				return nil
			}
			switch ev.Type {
			case EventAgentSelected:
				if cb.OnAgentSelected != nil {
					cb.OnAgentSelected(ev.Agent, ev.SessionID)
				}
			case EventChunk:
				if cb.OnChunk != nil {
					cb.OnChunk(ev.Content)
				}
			case EventError:
				if cb.OnError != nil {
					cb.OnError(ev.Message)
				}
			case EventDone:
				if cb.OnDone != nil {
					cb.OnDone()
				}
			}
			if ev.IsTerminal() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
