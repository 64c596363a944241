package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/geomic-server/internal/proto"
)

const usage = `commands:
  raise | mic-error | leave                 participant actions
  give <name> | revoke <name>               floor control (admin)
  approve <name> | reject <name>            join requests (admin)
  zone <lat> <lng> <radius> | clear | stop  session control (admin)
  coords <lat> <lng>                        report position`

func main() {
	if err := run(); err != nil {
		log.Printf("ws_console: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	role := flag.String("role", "user", "admin or user")
	name := flag.String("name", "cli-user", "display name")
	peer := flag.String("peer", "", "peer id to announce (defaults to peer-<name>)")
	ask := flag.Bool("ask", false, "send request-join instead of join")
	flag.Parse()
	if *peer == "" {
		*peer = "peer-" + *name
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	first := proto.Inbound{Type: proto.InboundTypeJoin}
	var data any = proto.JoinData{Role: *role, Name: *name, PeerID: *peer, Protocol: proto.ProtocolVersion}
	if *ask {
		first.Type = proto.InboundTypeRequestJoin
		data = proto.RequestJoinData{Name: *name, PeerID: *peer}
	}
	if first.Data, err = json.Marshal(data); err != nil {
		return fmt.Errorf("marshal %s: %w", first.Type, err)
	}
	if err := wsjson.Write(ctx, conn, first); err != nil {
		return fmt.Errorf("send %s: %w", first.Type, err)
	}

	fmt.Printf("Connected to %s as %s %s\n", *addr, *role, *name)
	fmt.Println(usage)

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}
		if outbound.Error != nil {
			fmt.Printf("! %s: %s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}
		fmt.Printf("< %s %s\n", outbound.Event, outbound.Data)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			inbound, err := parseLine(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := wsjson.Write(ctx, conn, inbound); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}

// parseLine turns one console line into a protocol frame.
func parseLine(line string) (proto.Inbound, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return proto.Inbound{}, errors.New("empty command")
	}
	cmd, args := fields[0], fields[1:]

	var (
		typ  string
		data any
	)
	switch cmd {
	case "raise":
		typ = proto.InboundTypeRaiseHand
	case "mic-error":
		typ = proto.InboundTypeMicError
	case "leave":
		typ = proto.InboundTypeLeave
	case "clear":
		typ = proto.InboundTypeClearZone
	case "stop":
		typ = proto.InboundTypeStopEvent
	case "give", "revoke", "approve", "reject":
		if len(args) != 1 {
			return proto.Inbound{}, fmt.Errorf("usage: %s <name>", cmd)
		}
		typ = map[string]string{
			"give":    proto.InboundTypeGiveMic,
			"revoke":  proto.InboundTypeRevokeMic,
			"approve": proto.InboundTypeApproveUser,
			"reject":  proto.InboundTypeRejectUser,
		}[cmd]
		data = proto.TargetData{Name: args[0]}
	case "zone":
		nums, err := floats(args, 3)
		if err != nil {
			return proto.Inbound{}, fmt.Errorf("usage: zone <lat> <lng> <radius>: %w", err)
		}
		typ = proto.InboundTypeSetZone
		data = proto.ZoneData{Center: proto.LatLng{nums[0], nums[1]}, Radius: nums[2]}
	case "coords":
		nums, err := floats(args, 2)
		if err != nil {
			return proto.Inbound{}, fmt.Errorf("usage: coords <lat> <lng>: %w", err)
		}
		typ = proto.InboundTypeUpdateCoords
		data = proto.CoordsData{Coords: proto.LatLng{nums[0], nums[1]}}
	default:
		return proto.Inbound{}, fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	in := proto.Inbound{Type: typ}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return proto.Inbound{}, err
		}
		in.Data = raw
	}
	return in, nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
