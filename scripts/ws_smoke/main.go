package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/geomic-server/internal/proto"
)

// ws_smoke drives one full floor cycle against a running server: an admin and a
// user join, the user raises a hand, the admin hands over and then ends the
// session.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

type peer struct {
	name string
	conn *websocket.Conn
}

type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	adminName := flag.String("admin", "smoke-admin", "admin display name")
	userName := flag.String("user", "smoke-user", "participant display name")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	admin, err := connect(ctx, *addr, *adminName)
	if err != nil {
		return err
	}
	defer admin.conn.Close(websocket.StatusNormalClosure, "bye")
	user, err := connect(ctx, *addr, *userName)
	if err != nil {
		return err
	}
	defer user.conn.Close(websocket.StatusNormalClosure, "bye")

	steps := []struct {
		from *peer
		typ  string
		data any
	}{
		{admin, proto.InboundTypeJoin, proto.JoinData{Role: "admin", Name: admin.name, PeerID: "peer-" + admin.name, Protocol: proto.ProtocolVersion}},
		{user, proto.InboundTypeJoin, proto.JoinData{Role: "user", Name: user.name, PeerID: "peer-" + user.name, Protocol: proto.ProtocolVersion}},
		{user, proto.InboundTypeRaiseHand, nil},
		{admin, proto.InboundTypeGiveMic, proto.TargetData{Name: user.name}},
	}
	for _, s := range steps {
		if err := s.from.send(ctx, s.typ, s.data); err != nil {
			return err
		}
	}

	granted, err := user.await(ctx, proto.EventMicGranted)
	if err != nil {
		return err
	}
	fmt.Printf("%s is on air: %s\n", user.name, granted.Data)

	if err := admin.send(ctx, proto.InboundTypeStopEvent, nil); err != nil {
		return err
	}
	if _, err := user.await(ctx, proto.EventEnded); err != nil {
		return err
	}
	fmt.Println("session ended")
	return nil
}

func connect(ctx context.Context, addr, name string) (*peer, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}
	return &peer{name: name, conn: conn}, nil
}

func (p *peer) send(ctx context.Context, typ string, data any) error {
	in := proto.Inbound{Type: typ}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		in.Data = payload
	}
	if err := wsjson.Write(ctx, p.conn, in); err != nil {
		return fmt.Errorf("%s send %s: %w", p.name, typ, err)
	}
	return nil
}

// await prints every frame until the wanted event arrives.
func (p *peer) await(ctx context.Context, event string) (frame, error) {
	for {
		var f frame
		if err := wsjson.Read(ctx, p.conn, &f); err != nil {
			return f, fmt.Errorf("%s read: %w", p.name, err)
		}
		if f.Error != nil {
			return f, fmt.Errorf("%s got error %s: %s", p.name, f.Error.Code, f.Error.Msg)
		}
		fmt.Printf("[%s] %s %s\n", p.name, f.Event, f.Data)
		if f.Event == event {
			return f, nil
		}
	}
}
