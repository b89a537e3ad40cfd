package lovense

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToyMapDecodeDescriptors(t *testing.T) {
	payload := `{
		"d290f1ee": {"id": "d290f1ee", "name": "Solace Pro", "nickName": "mine",
			"toyType": "solace", "battery": 80, "status": 1, "fVersion": "3.1.1",
			"shortFunctionNames": ["v", "t", "d"]},
		"aa11bb22": {"name": "Lush 3", "toyType": "lush", "battery": 120,
			"status": "0", "hVersion": 2}
	}`
	var toys ToyMap
	require.NoError(t, json.Unmarshal([]byte(payload), &toys))
	require.Len(t, toys, 2)

	solace := toys["d290f1ee"]
	assert.Equal(t, "d290f1ee", solace.Id)
	assert.True(t, solace.Connected)
	require.NotNil(t, solace.Battery)
	assert.Equal(t, 80, *solace.Battery)
	assert.Equal(t, "3.1.1", solace.FirmwareVersion())

	lush := toys["aa11bb22"]
	assert.Equal(t, "aa11bb22", lush.Id)
	assert.False(t, lush.Connected)
	require.NotNil(t, lush.Battery)
	assert.Equal(t, 100, *lush.Battery)
	assert.Equal(t, "HW 2", lush.FirmwareVersion())
}

func TestToyMapDecodeDoubleEncoded(t *testing.T) {
	inner := `{"d290f1ee": {"name": "Solace Pro", "status": 1}}`
	payload, err := json.Marshal(inner)
	require.NoError(t, err)

	var toys ToyMap
	require.NoError(t, json.Unmarshal(payload, &toys))
	require.Len(t, toys, 1)
	assert.Equal(t, "Solace Pro", toys["d290f1ee"].Name)
	assert.True(t, toys["d290f1ee"].Connected)
}

func TestToyMapDecodeBareIdsAndMalformed(t *testing.T) {
	payload := `{
		"t1": "t1",
		"t2": {"name": "Lush 3", "status": 1},
		"t3": 42
	}`
	var toys ToyMap
	require.NoError(t, json.Unmarshal([]byte(payload), &toys))
	require.Len(t, toys, 2)
	assert.Equal(t, "t1", toys["t1"].Id)
	assert.False(t, toys["t1"].Connected)
	assert.Equal(t, "Lush 3", toys["t2"].Name)
}

func TestToyFunctions(t *testing.T) {
	toy := Toy{
		ShortFunctionNames: []string{"v", "t", "x"},
		FullFunctionNames:  []string{"Vibrate", "Depth"},
	}
	assert.Equal(t, []string{"Vibrate", "Thrusting", "Depth"}, toy.Functions())
}

func TestToySupportsPositionControl(t *testing.T) {
	assert.True(t, Toy{ToyType: "solace"}.SupportsPositionControl())
	assert.True(t, Toy{Name: "Solace Pro"}.SupportsPositionControl())
	assert.True(t, Toy{ShortFunctionNames: []string{"d"}}.SupportsPositionControl())
	assert.True(t, Toy{FullFunctionNames: []string{"Stroke"}}.SupportsPositionControl())
	assert.False(t, Toy{ToyType: "lush", ShortFunctionNames: []string{"v"}}.SupportsPositionControl())
}

func TestCommandJSONKeepsExplicitTimeSec(t *testing.T) {
	zero := 0
	cmd := Command{
		Command: CommandFunction,
		Action:  "Vibrate:12,Stroke:10-80",
		TimeSec: &zero,
		Toy:     "t1",
		ApiVer:  1,
	}
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timeSec":0`)

	data, err = json.Marshal(Command{Command: CommandGetToys})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "timeSec")
}

func TestParseCallback(t *testing.T) {
	payload := `{"uid": "u1", "domain": "192-168-1-10.lovense.club",
		"httpsPort": 34568, "platform": "ios",
		"toys": {"t1": {"name": "Solace Pro", "status": 1}}}`
	parsed, err := ParseCallback([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.Uid)
	require.NotNil(t, parsed.Endpoint())
	assert.Equal(t, "https://192-168-1-10.lovense.club:34568/command", parsed.Endpoint().CommandURL())
	assert.Len(t, parsed.Toys, 1)

	_, err = ParseCallback([]byte(`{"domain": "x", "httpsPort": 1}`))
	assert.Error(t, err)

	parsed, err = ParseCallback([]byte(`{"uid": "u1"}`))
	require.NoError(t, err)
	assert.Nil(t, parsed.Endpoint())
}
