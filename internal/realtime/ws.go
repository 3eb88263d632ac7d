package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

const writeTimeout = 10 * time.Second

// Chat is the part of the chat service the socket needs.
type Chat interface {
	Join(ctx context.Context, postingID, userID uint, role string) error
	Send(ctx context.Context, postingID, senderID uint, role, body string) (*models.Message, error)
}

// ID accepts both JSON numbers and numeric strings.
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

type joinPayload struct {
	PostingID ID `json:"postingId"`
	UserID    ID `json:"userId"`
}

type sendPayload struct {
	PostingID ID     `json:"postingId"`
	SenderID  ID     `json:"senderId"`
	Body      string `json:"body"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type Server struct {
	hub  *Hub
	chat Chat
	log  *slog.Logger
}

func NewServer(hub *Hub, chat Chat, log *slog.Logger) *Server {
	return &Server{hub: hub, chat: chat, log: log}
}

// ServeConn upgrades the request and serves one authenticated connection
// until it is closed.
func (s *Server) ServeConn(w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := NewClient(userID, role)
	s.log.Debug("websocket connected", slog.Uint64("user_id", uint64(userID)))

	out := &connWriter{conn: conn}
	go s.writeLoop(out, client)
	defer func() {
		s.hub.Remove(client)
		client.Close()
		s.log.Debug("websocket disconnected", slog.Uint64("user_id", uint64(userID)))
	}()

	ctx := r.Context()
	for {
		data, err := readText(conn, out)
		if err != nil {
			return
		}
		s.handleFrame(ctx, client, data)
	}
}

// connWriter serializes whole frames onto the connection. Pong and close
// replies come from the reader goroutine while writeLoop sends events.
type connWriter struct {
	mu   sync.Mutex
	conn net.Conn
}

func (w *connWriter) text(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return wsutil.WriteServerText(w.conn, frame)
}

// control answers a ping or close frame read from r.
func (w *connWriter) control(h ws.Header, r io.Reader) error {
	var reply bytes.Buffer
	err := wsutil.ControlFrameHandler(&reply, ws.StateServerSide)(h, r)
	if reply.Len() > 0 {
		w.mu.Lock()
		_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_, werr := w.conn.Write(reply.Bytes())
		w.mu.Unlock()
		if err == nil {
			err = werr
		}
	}
	return err
}

// readText returns the next text message, answering control frames on the way.
func readText(conn net.Conn, out *connWriter) ([]byte, error) {
	rd := wsutil.Reader{
		Source:         conn,
		State:          ws.StateServerSide,
		CheckUTF8:      true,
		OnIntermediate: out.control,
	}
	for {
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := out.control(hdr, &rd); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode != ws.OpText {
			if err := rd.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		return io.ReadAll(&rd)
	}
}

func (s *Server) writeLoop(out *connWriter, c *Client) {
	defer out.conn.Close()
	for {
		select {
		case <-c.Done():
			return
		case frame := <-c.send:
			if err := out.text(frame); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (s *Server) handleFrame(ctx context.Context, c *Client, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.reply(c, EventError, errorPayload{Message: "malformed frame"})
		return
	}
	switch frame.Event {
	case EventJoinChat:
		var p joinPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.PostingID == 0 {
			s.reply(c, EventError, errorPayload{Message: "postingId is required"})
			return
		}
		if p.UserID != 0 && uint(p.UserID) != c.UserID {
			s.reply(c, EventError, errorPayload{Message: "userId does not match the session"})
			return
		}
		if err := s.chat.Join(ctx, uint(p.PostingID), c.UserID, c.Role); err != nil {
			s.replyErr(c, err)
			return
		}
		s.hub.Join(c, RoomName(uint(p.PostingID)))
	case EventSendMessage:
		var p sendPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.PostingID == 0 {
			s.reply(c, EventError, errorPayload{Message: "postingId is required"})
			return
		}
		if p.SenderID != 0 && uint(p.SenderID) != c.UserID {
			s.reply(c, EventError, errorPayload{Message: "senderId does not match the session"})
			return
		}
		if _, err := s.chat.Send(ctx, uint(p.PostingID), c.UserID, c.Role, p.Body); err != nil {
			s.replyErr(c, err)
		}
	default:
		s.reply(c, EventError, errorPayload{Message: "unknown event " + strconv.Quote(frame.Event)})
	}
}

func (s *Server) replyErr(c *Client, err error) {
	msg := "failed to process message"
	if appErr, ok := apperr.As(err); ok && appErr.Kind != apperr.KindInternal {
		msg = appErr.Message
	} else if !errors.Is(err, context.Canceled) {
		s.log.Error("websocket event failed", slog.Uint64("user_id", uint64(c.UserID)), slog.String("error", err.Error()))
	}
	s.reply(c, EventError, errorPayload{Message: msg})
}

// reply goes to this connection only.
func (s *Server) reply(c *Client, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		return
	}
	c.enqueue(frame)
}
