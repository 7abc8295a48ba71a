package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// streamEvents subscribes the connection to the group's event channel
// and streams settlement events as server-sent events until the client
// disconnects.
func (s *Server) streamEvents(c *fiber.Ctx) error {
	groupID := c.Params("groupId")

	// Verify the group exists before committing to the stream; after the
	// stream starts there is no way to signal an error status.
	if _, err := s.svc.GetGroupDetail(c.Context(), groupID); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := s.log
	hub := s.hub
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sub := hub.Join(groupID)
		defer hub.Leave(sub)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					log.Error("failed to encode event", "event", event.EventName(), "error", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventName(), payload)
			case <-heartbeat.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			}
			// A flush error means the client is gone.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
