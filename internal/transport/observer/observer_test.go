package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
)

func newRun(t *testing.T, n int) (outbreak.Config, *outbreak.Model) {
	t.Helper()
	cfg := outbreak.DefaultConfig()
	cfg.Population = n
	cfg.Seed = 3
	model, err := outbreak.New(cfg)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return cfg, model
}

func dial(t *testing.T, srv *httptest.Server, replay bool) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/observer/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	sub := SubscribeMsg{Type: TypeSubscribe, ProtocolVersion: Version, Replay: replay}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	return conn
}

// readStream collects DAY messages until END arrives.
func readStream(t *testing.T, conn *websocket.Conn) ([]outbreak.DayResult, EndMsg) {
	t.Helper()
	var days []outbreak.DayResult
	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read after %d days: %v", len(days), err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			t.Fatalf("decode: %v", err)
		}
		switch head.Type {
		case TypeDay:
			var msg DayMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode day: %v", err)
			}
			days = append(days, msg.DayResult)
		case TypeEnd:
			var end EndMsg
			if err := json.Unmarshal(raw, &end); err != nil {
				t.Fatalf("decode end: %v", err)
			}
			return days, end
		default:
			t.Fatalf("unexpected message type %q", head.Type)
		}
	}
}

func checkOrdered(t *testing.T, days []outbreak.DayResult, want int) {
	t.Helper()
	if len(days) != want {
		t.Fatalf("got %d days, want %d", len(days), want)
	}
	for i, d := range days {
		if d.Day != i {
			t.Fatalf("message %d carries day %d", i, d.Day)
		}
	}
}

func TestLiveStreamDeliversEveryDayInOrder(t *testing.T) {
	cfg, model := newRun(t, 300)
	hub := NewHub(cfg, 4096)
	srv := httptest.NewServer(NewServer(hub, nil).Handler())
	defer srv.Close()

	conn := dial(t, srv, false)
	defer conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	d := driver.New(model, driver.Options{})
	d.Subscribe(hub)
	sum, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	days, end := readStream(t, conn)
	checkOrdered(t, days, sum.Days+1)
	if end.Days != sum.Days || end.Dead != sum.Dead || len(end.Series) != len(sum.Series) {
		t.Fatalf("end message %+v does not match summary", end)
	}
}

func TestReplayAfterRunEnded(t *testing.T) {
	cfg, model := newRun(t, 200)
	hub := NewHub(cfg, 0)
	d := driver.New(model, driver.Options{})
	d.Subscribe(hub)
	sum, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	srv := httptest.NewServer(NewServer(hub, nil).Handler())
	defer srv.Close()
	conn := dial(t, srv, true)
	defer conn.Close()

	days, end := readStream(t, conn)
	checkOrdered(t, days, sum.Days+1)
	if end.TotalInfected != sum.TotalInfected {
		t.Fatalf("end total %d, want %d", end.TotalInfected, sum.TotalInfected)
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	hub := NewHub(outbreak.DefaultConfig(), 2)
	slow := hub.Subscribe(false)
	for day := 0; day < 5; day++ {
		if err := hub.Consume(outbreak.DayResult{Day: day}); err != nil {
			t.Fatalf("consume: %v", err)
		}
	}
	var got int
	for range slow.C() {
		got++
	}
	if got != 3 {
		t.Fatalf("slow subscriber received %d messages before drop, want 3", got)
	}
	if slow.Reason() != ReasonSlow {
		t.Fatalf("reason = %q", slow.Reason())
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("dropped subscriber still registered")
	}
	hub.Unsubscribe(slow)
}

func TestBootstrapLoopbackOnly(t *testing.T) {
	cfg := outbreak.DefaultConfig()
	hub := NewHub(cfg, 0)
	if err := hub.Consume(outbreak.DayResult{Day: 4}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	h := NewServer(hub, nil).BootstrapHandler()

	req := httptest.NewRequest(http.MethodGet, "/observer/bootstrap", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("remote request: status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/observer/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("loopback request: status %d", rec.Code)
	}
	var resp BootstrapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProtocolVersion != Version || resp.Population != cfg.Population || resp.Day != 4 || resp.Ended {
		t.Fatalf("unexpected bootstrap %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/observer/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("post: status %d", rec.Code)
	}
}

func TestSubscribeRejectsWrongVersion(t *testing.T) {
	srv := httptest.NewServer(NewServer(NewHub(outbreak.DefaultConfig(), 0), nil).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/observer/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(SubscribeMsg{Type: TypeSubscribe, ProtocolVersion: "9.9"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}
