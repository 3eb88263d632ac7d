package realtime

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomName(t *testing.T) {
	assert.Equal(t, "chat_17", RoomName(17))
}

func TestHubBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub(logging.Discard())
	a, b, outsider := NewClient(1, "user"), NewClient(2, "employer"), NewClient(3, "user")
	hub.Join(a, RoomName(1))
	hub.Join(b, RoomName(1))
	hub.Join(outsider, RoomName(2))

	require.NoError(t, hub.Broadcast(context.Background(), RoomName(1), EventReceiveMessage, map[string]any{"body": "hi"}))

	for _, c := range []*Client{a, b} {
		select {
		case frame := <-c.send:
			var f Frame
			require.NoError(t, json.Unmarshal(frame, &f))
			assert.Equal(t, EventReceiveMessage, f.Event)
			assert.JSONEq(t, `{"body":"hi"}`, string(f.Data))
		default:
			t.Fatalf("client %d got nothing", c.UserID)
		}
	}
	assert.Empty(t, outsider.send)
}

func TestRedisBackplaneKeepsLocalDeliveryWhenSubscribeFails(t *testing.T) {
	hub := NewHub(logging.Discard())
	c := NewClient(1, "user")
	hub.Join(c, RoomName(3))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.Error(t, NewRedisBackplane(client, logging.Discard()).Run(ctx, hub))

	require.NoError(t, hub.Broadcast(context.Background(), RoomName(3), EventReceiveMessage, "still local"))
	select {
	case frame := <-c.send:
		assert.Contains(t, string(frame), "still local")
	default:
		t.Fatal("broadcast did not reach the local client")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(logging.Discard())
	slow := NewClient(1, "user")
	room := RoomName(9)
	hub.Join(slow, room)

	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, hub.Broadcast(context.Background(), room, EventReceiveMessage, i))
	}
	assert.Equal(t, 1, hub.Members(room))

	require.NoError(t, hub.Broadcast(context.Background(), room, EventReceiveMessage, "overflow"))
	assert.Equal(t, 0, hub.Members(room))
	select {
	case <-slow.Done():
	default:
		t.Fatal("slow client should be closed")
	}
}

func TestHubRemoveLeavesAllRooms(t *testing.T) {
	hub := NewHub(logging.Discard())
	c := NewClient(1, "user")
	hub.Join(c, RoomName(1))
	hub.Join(c, RoomName(2))
	hub.Remove(c)
	assert.Equal(t, 0, hub.Members(RoomName(1)))
	assert.Equal(t, 0, hub.Members(RoomName(2)))
}

type fakeChat struct {
	hub     *Hub
	members map[uint]bool
}

func (f *fakeChat) Join(_ context.Context, postingID, userID uint, _ string) error {
	if !f.members[userID] {
		return apperr.Forbidden("you are not part of this chat")
	}
	return nil
}

func (f *fakeChat) Send(ctx context.Context, postingID, senderID uint, _ string, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.Validation("message is required")
	}
	msg := &models.Message{ID: 1, PostingID: postingID, SenderID: senderID, Body: body}
	return msg, f.hub.Broadcast(ctx, RoomName(postingID), EventReceiveMessage, msg)
}

func dial(t *testing.T, srv *httptest.Server, userID string) net.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?uid=" + userID
	conn, _, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn net.Conn, event string, data any) {
	t.Helper()
	frame, err := encodeFrame(event, data)
	require.NoError(t, err)
	require.NoError(t, wsutil.WriteClientText(conn, frame))
}

func read(t *testing.T, conn net.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestServerJoinAndSend(t *testing.T) {
	hub := NewHub(logging.Discard())
	chat := &fakeChat{hub: hub, members: map[uint]bool{1: true, 2: true}}
	server := NewServer(hub, chat, logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var uid uint
		switch r.URL.Query().Get("uid") {
		case "1":
			uid = 1
		case "2":
			uid = 2
		default:
			uid = 3
		}
		server.ServeConn(w, r, uid, "user")
	}))
	defer srv.Close()

	alice := dial(t, srv, "1")
	bob := dial(t, srv, "2")
	mallory := dial(t, srv, "3")

	send(t, alice, EventJoinChat, map[string]any{"postingId": 5, "userId": 1})
	send(t, bob, EventJoinChat, map[string]any{"postingId": "5", "userId": "2"})
	require.Eventually(t, func() bool { return hub.Members(RoomName(5)) == 2 }, 2*time.Second, 10*time.Millisecond)

	send(t, mallory, EventJoinChat, map[string]any{"postingId": 5, "userId": 3})
	f := read(t, mallory)
	assert.Equal(t, EventError, f.Event)
	assert.JSONEq(t, `{"message":"you are not part of this chat"}`, string(f.Data))

	send(t, mallory, EventJoinChat, map[string]any{"postingId": 5, "userId": 1})
	f = read(t, mallory)
	assert.Equal(t, EventError, f.Event)

	send(t, alice, EventSendMessage, map[string]any{"postingId": 5, "senderId": 1, "body": "hello"})
	for _, conn := range []net.Conn{alice, bob} {
		f := read(t, conn)
		assert.Equal(t, EventReceiveMessage, f.Event)
		var msg models.Message
		require.NoError(t, json.Unmarshal(f.Data, &msg))
		assert.Equal(t, "hello", msg.Body)
		assert.Equal(t, uint(1), msg.SenderID)
	}

	send(t, bob, EventSendMessage, map[string]any{"postingId": 5, "senderId": 2, "body": "  "})
	f = read(t, bob)
	assert.Equal(t, EventError, f.Event)
	assert.JSONEq(t, `{"message":"message is required"}`, string(f.Data))

	require.NoError(t, wsutil.WriteClientText(bob, []byte("not json")))
	f = read(t, bob)
	assert.Equal(t, EventError, f.Event)
}

func TestServerAnswersPingsBetweenEvents(t *testing.T) {
	hub := NewHub(logging.Discard())
	server := NewServer(hub, &fakeChat{hub: hub, members: map[uint]bool{1: true}}, logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.ServeConn(w, r, 1, "user")
	}))
	defer srv.Close()

	conn := dial(t, srv, "1")
	send(t, conn, EventJoinChat, map[string]any{"postingId": 4})
	require.Eventually(t, func() bool { return hub.Members(RoomName(4)) == 1 }, 2*time.Second, 10*time.Millisecond)

	const n = 20
	for i := 0; i < n; i++ {
		require.NoError(t, hub.Broadcast(context.Background(), RoomName(4), EventReceiveMessage, i))
		require.NoError(t, wsutil.WriteClientMessage(conn, ws.OpPing, []byte("ping")))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var pongs, events int
	for pongs < n || events < n {
		f, err := ws.ReadFrame(conn)
		require.NoError(t, err)
		switch f.Header.OpCode {
		case ws.OpPong:
			assert.Equal(t, "ping", string(f.Payload))
			pongs++
		case ws.OpText:
			var frame Frame
			require.NoError(t, json.Unmarshal(f.Payload, &frame))
			assert.Equal(t, EventReceiveMessage, frame.Event)
			events++
		default:
			t.Fatalf("unexpected opcode %v", f.Header.OpCode)
		}
	}
}
