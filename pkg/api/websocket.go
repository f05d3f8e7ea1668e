package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/khryptorgraphics/cpuschedsim/pkg/cache"
	"github.com/khryptorgraphics/cpuschedsim/pkg/runner"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type traceFrame struct {
	Type    string         `json:"type"`
	Segment *types.Segment `json:"segment,omitempty"`
	Info    *types.Info    `json:"info,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// traceWebsocketHandler recomputes (or fetches from cache) the run
// named in the path and streams its trace one segment at a time, so a
// client can animate the schedule as it arrives instead of waiting for
// the whole trace at once. The run id in the URL is only a label for
// the connection; the actual TaskInfo travels as the first client
// message since compute() takes no other input.
func (s *Server) traceWebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	runID := c.Param("id")

	var input types.TaskInfo
	if err := conn.ReadJSON(&input); err != nil {
		conn.WriteJSON(traceFrame{Type: "error", Error: "expected a task_info message: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	if s.cache != nil {
		digest, err := cache.Digest(input)
		if err == nil {
			if cached, hit, err := s.cache.Get(ctx, digest); err == nil && hit {
				s.streamTrace(conn, cached.Trace, cached.Info)
				return
			}
		}
	}

	resultCh, err := s.pool.Submit(ctx, runID, input)
	if err != nil {
		conn.WriteJSON(traceFrame{Type: "error", Error: err.Error()})
		return
	}

	res, err := runner.Await(ctx, resultCh)
	if err != nil {
		conn.WriteJSON(traceFrame{Type: "error", Error: err.Error()})
		return
	}
	if res.Err != nil {
		conn.WriteJSON(traceFrame{Type: "error", Error: res.Err.Error()})
		return
	}

	s.streamTrace(conn, res.Trace, res.Info)
}

func (s *Server) streamTrace(conn *websocket.Conn, trace types.Trace, info types.Info) {
	for i := range trace {
		seg := trace[i]
		if err := conn.WriteJSON(traceFrame{Type: "segment", Segment: &seg}); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	conn.WriteJSON(traceFrame{Type: "done", Info: &info})
}
