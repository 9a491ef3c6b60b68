package reload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcasterClientCount(t *testing.T) {
	b := NewBroadcaster()
	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", b.ClientCount())
	}

	// Broadcasting with no clients is a no-op, not a panic.
	b.NotifyReload("1")
	b.NotifyError("boom")
	b.ClearError()
}

func TestBroadcasterReloadMessage(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(http.HandlerFunc(b.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The server registers the client asynchronously after the upgrade.
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", b.ClientCount())
	}

	b.NotifyReload("42")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeReload || msg.Version != "42" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMessageJSON(t *testing.T) {
	data, err := json.Marshal(Message{Type: TypeError, Error: "scan failed"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"type":"error"`) || !strings.Contains(s, `"scan failed"`) {
		t.Errorf("json = %s", s)
	}
	if strings.Contains(s, "version") {
		t.Errorf("empty version serialized: %s", s)
	}
}
