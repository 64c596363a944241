package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vovakirdan/geomic-server/internal/core"
	"github.com/vovakirdan/geomic-server/internal/proto"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// decode unmarshals an optional payload. A missing data field is treated as an
// empty object.
func decode(inbound proto.Inbound, v any) error {
	if len(inbound.Data) == 0 || string(inbound.Data) == "null" {
		return nil
	}
	return json.Unmarshal(inbound.Data, v)
}

// inboundToCommand maps a client frame to a core command. A protocol error is
// reported back to the client; a non-nil error closes the connection.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decode(inbound, &join); err != nil {
			return nil, nil, err
		}
		if join.Protocol != 0 && join.Protocol != proto.ProtocolVersion {
			return nil, &proto.Error{
				Code: core.ErrCodeUnsupportedVersion,
				Msg:  fmt.Sprintf("protocol %d not supported, want %d", join.Protocol, proto.ProtocolVersion),
			}, nil
		}
		key, protoErr := identity(join.Role, join.Name)
		if protoErr != nil {
			return nil, protoErr, nil
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Identity: key,
			PeerID:   join.PeerID,
			Claimed:  core.FloorState{HandRaised: join.HandRaised, OnAir: join.OnAir},
		}, nil, nil
	case proto.InboundTypeRequestJoin:
		var req proto.RequestJoinData
		if err := decode(inbound, &req); err != nil {
			return nil, nil, err
		}
		key, protoErr := identity(string(core.RoleUser), req.Name)
		if protoErr != nil {
			return nil, protoErr, nil
		}
		return &core.Command{Kind: core.CommandRequestJoin, Identity: key, PeerID: req.PeerID}, nil, nil
	case proto.InboundTypeSetZone:
		var zone proto.ZoneData
		if err := decode(inbound, &zone); err != nil {
			return nil, nil, err
		}
		z := core.Zone{Center: coord(zone.Center), Radius: zone.Radius}
		if !z.Valid() {
			return nil, badRequest("zone needs a valid center and a positive radius"), nil
		}
		return &core.Command{Kind: core.CommandSetZone, Zone: z}, nil, nil
	case proto.InboundTypeUpdateCoords:
		var data proto.CoordsData
		if err := decode(inbound, &data); err != nil {
			return nil, nil, err
		}
		c := coord(data.Coords)
		if !c.Valid() {
			return nil, badRequest("coords out of range"), nil
		}
		return &core.Command{Kind: core.CommandUpdateCoords, Coords: c}, nil, nil
	case proto.InboundTypeApproveUser, proto.InboundTypeRejectUser,
		proto.InboundTypeGiveMic, proto.InboundTypeRevokeMic:
		var target proto.TargetData
		if err := decode(inbound, &target); err != nil {
			return nil, nil, err
		}
		t := core.Target{
			ConnID: core.ConnID(strings.TrimSpace(target.ConnectionID)),
			Name:   strings.TrimSpace(target.Name),
		}
		if t.ConnID == "" && t.Name == "" {
			return nil, badRequest("connectionId or name is required"), nil
		}
		return &core.Command{Kind: targetKinds[inbound.Type], Target: t}, nil, nil
	case proto.InboundTypeClearZone, proto.InboundTypeStopEvent, proto.InboundTypeAdminExit,
		proto.InboundTypeRaiseHand, proto.InboundTypeMicError, proto.InboundTypeLeave:
		return &core.Command{Kind: bareKinds[inbound.Type]}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

var targetKinds = map[string]core.CommandKind{
	proto.InboundTypeApproveUser: core.CommandApprove,
	proto.InboundTypeRejectUser:  core.CommandReject,
	proto.InboundTypeGiveMic:     core.CommandGrantFloor,
	proto.InboundTypeRevokeMic:   core.CommandRevokeFloor,
}

var bareKinds = map[string]core.CommandKind{
	proto.InboundTypeClearZone: core.CommandClearZone,
	proto.InboundTypeStopEvent: core.CommandEndSession,
	proto.InboundTypeAdminExit: core.CommandEndSession,
	proto.InboundTypeRaiseHand: core.CommandRaiseHand,
	proto.InboundTypeMicError:  core.CommandMediaFailed,
	proto.InboundTypeLeave:     core.CommandLeave,
}

func identity(role, name string) (core.IdentityKey, *proto.Error) {
	key := core.IdentityKey{Role: core.Role(role), Name: strings.TrimSpace(name)}
	if !key.Role.Valid() {
		return key, badRequest("role must be admin or user")
	}
	if key.Name == "" {
		return key, badRequest("name is required")
	}
	if len(key.Name) > core.MaxNameLen {
		return key, badRequest(fmt.Sprintf("name longer than %d bytes", core.MaxNameLen))
	}
	return key, nil
}

func coord(ll proto.LatLng) core.Coord {
	return core.Coord{Lat: ll[0], Lng: ll[1]}
}

func latLng(c core.Coord) proto.LatLng {
	return proto.LatLng{c.Lat, c.Lng}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventParticipantsList:
		return eventOut(proto.EventParticipantsList, participantsOut(event.Participants))
	case core.EventAdminUpdated:
		return eventOut(proto.EventAdminUpdated, adminOut(event.Admin))
	case core.EventZoneUpdated:
		return eventOut(proto.EventZoneUpdated, zoneOut(event.Zone))
	case core.EventPendingRequests:
		reqs := make([]proto.Request, 0, len(event.Requests))
		for _, r := range event.Requests {
			reqs = append(reqs, proto.Request{ConnectionID: string(r.ConnID), Name: r.Name, PeerID: r.PeerID})
		}
		return eventOut(proto.EventNewRequest, reqs)
	case core.EventJoinApproved:
		data := proto.JoinApproved{}
		if a := event.Approval; a != nil {
			data.AdminName, data.AdminPeerID = a.AdminName, a.AdminPeerID
		}
		return eventOut(proto.EventJoinApproved, data)
	case core.EventJoinRejected:
		return eventOut(proto.EventJoinRejected, nil)
	case core.EventMicGranted:
		data := proto.MicGranted{}
		if f := event.Floor; f != nil {
			data = proto.MicGranted{ConnectionID: string(f.ConnID), Name: f.Name, PeerID: f.PeerID, AdminPeerID: f.AdminPeerID}
		}
		return eventOut(proto.EventMicGranted, data)
	case core.EventMicRevoked:
		data := proto.MicRevoked{}
		if f := event.Floor; f != nil {
			data = proto.MicRevoked{ConnectionID: string(f.ConnID), Name: f.Name, Reason: f.Reason}
		}
		return eventOut(proto.EventMicRevoked, data)
	case core.EventSessionEnded:
		return eventOut(proto.EventEnded, nil)
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOut(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func participantsOut(views []core.ParticipantView) []proto.Participant {
	out := make([]proto.Participant, 0, len(views))
	for _, p := range views {
		row := proto.Participant{
			ConnectionID: string(p.ConnID),
			Name:         p.Name,
			PeerID:       p.PeerID,
			HandRaised:   p.HandRaised,
			OnAir:        p.OnAir,
		}
		if p.Coords != nil {
			ll := latLng(*p.Coords)
			row.Coords = &ll
		}
		out = append(out, row)
	}
	return out
}

// adminOut returns nil when there is no admin; the client renders it as null.
func adminOut(a *core.AdminView) *proto.Admin {
	if a == nil {
		return nil
	}
	return &proto.Admin{Name: a.Name, PeerID: a.PeerID, Online: a.Online}
}

func zoneOut(z *core.Zone) *proto.Zone {
	if z == nil {
		return nil
	}
	return &proto.Zone{Center: latLng(z.Center), Radius: z.Radius}
}

func sessionOut(snap core.Snapshot) proto.Session {
	return proto.Session{
		Active:       snap.Active,
		Admin:        adminOut(snap.Admin),
		Zone:         zoneOut(snap.Zone),
		Participants: participantsOut(snap.Participants),
	}
}
