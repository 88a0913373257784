package net

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"SignaturePad/internal/pad"

	"github.com/gorilla/websocket"
)

// Viewer is a read-only connection to a mirror hub.
type Viewer struct {
	conn *websocket.Conn
}

// Dial connects to the hub at a ws:// URL (see LinkToURL).
func Dial(ctx context.Context, url string) (*Viewer, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial mirror %s: %w", url, err)
	}
	return &Viewer{conn: conn}, nil
}

func (v *Viewer) LocalAddr() string { return v.conn.LocalAddr().String() }

// Run reads frames and hands them to handle until the connection or ctx ends.
func (v *Viewer) Run(ctx context.Context, handle func(Frame) error) error {
	stop := context.AfterFunc(ctx, func() { v.conn.Close() })
	defer stop()

	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			slog.Warn("bad mirror frame", "component", "viewer", "error", err)
			continue
		}
		if err := handle(f); err != nil {
			slog.Debug("frame not applied", "component", "viewer", "type", f.Type, "error", err)
		}
	}
}

func (v *Viewer) Close() error {
	err := v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if cerr := v.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// Follower applies mirror frames to a local pad. Ops already covered by the
// last sync are skipped.
type Follower struct {
	pad    *pad.Pad
	synced uint64
}

func NewFollower(p *pad.Pad) *Follower {
	return &Follower{pad: p}
}

func (f *Follower) Handle(fr Frame) error {
	switch fr.Type {
	case FrameSync:
		if fr.Sync == nil {
			return fmt.Errorf("sync frame without state")
		}
		f.synced = fr.Sync.Lamport
		return f.pad.Restore(*fr.Sync)
	case FrameOp:
		if fr.Op == nil {
			return fmt.Errorf("op frame without op")
		}
		if fr.Op.Lamport <= f.synced {
			return nil
		}
		return f.pad.Apply(*fr.Op)
	}
	return fmt.Errorf("unknown frame type %q", fr.Type)
}
