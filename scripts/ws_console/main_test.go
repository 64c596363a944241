package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/geomic-server/internal/proto"
)

func TestParseLine(t *testing.T) {
	in, err := parseLine("give Bo")
	require.NoError(t, err)
	assert.Equal(t, proto.InboundTypeGiveMic, in.Type)
	var target proto.TargetData
	require.NoError(t, json.Unmarshal(in.Data, &target))
	assert.Equal(t, "Bo", target.Name)

	in, err = parseLine("  zone 48.85 2.35 300 ")
	require.NoError(t, err)
	var zone proto.ZoneData
	require.NoError(t, json.Unmarshal(in.Data, &zone))
	assert.Equal(t, proto.ZoneData{Center: proto.LatLng{48.85, 2.35}, Radius: 300}, zone)

	in, err = parseLine("raise")
	require.NoError(t, err)
	assert.Equal(t, proto.InboundTypeRaiseHand, in.Type)
	assert.Empty(t, in.Data)
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{"", "give", "zone 1 2", "coords x y", "dance"} {
		_, err := parseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}
