package skill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	resp, err := Build("Title", "speech", "again?", false)
	require.NoError(t, err)
	assert.Equal(t, "speech", resp.Speech)
	assert.Equal(t, &Card{Title: "Title", Content: "speech"}, resp.Card)
	assert.Equal(t, "again?", resp.Reprompt)
	assert.False(t, resp.ShouldEndSession)

	resp, err = Build("Bye", "bye", "", true)
	require.NoError(t, err)
	assert.True(t, resp.ShouldEndSession)
	assert.False(t, resp.HasReprompt())

	_, err = Build("Bye", "bye", "again?", true)
	assert.ErrorIs(t, err, ErrRepromptOnEndSession)
}

func TestParseOcean(t *testing.T) {
	tests := []struct {
		in   string
		want Ocean
		ok   bool
	}{
		{"Atlantic", OceanAtlantic, true},
		{"Pacific", OceanPacific, true},
		{"atlantic", OceanUnset, false},
		{"Pacific Ocean", OceanUnset, false},
		{"", OceanUnset, false},
	}
	for _, tt := range tests {
		got, ok := ParseOcean(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestAttributesFromMap(t *testing.T) {
	assert.Equal(t, Attributes{}, AttributesFromMap(nil))
	assert.Equal(t, Attributes{Ocean: OceanPacific}, AttributesFromMap(map[string]any{"ocean": "Pacific"}))
	assert.Equal(t, Attributes{}, AttributesFromMap(map[string]any{"ocean": "Gulf"}))
	assert.Equal(t, Attributes{}, AttributesFromMap(map[string]any{"ocean": 3}))
	assert.Equal(t, Attributes{}, AttributesFromMap(map[string]any{"other": "x"}))
}

func TestSlotsValue(t *testing.T) {
	s := Slots{"Ocean": "Atlantic", "Empty": ""}

	v, ok := s.Value("Ocean")
	assert.True(t, ok)
	assert.Equal(t, "Atlantic", v)

	_, ok = s.Value("Empty")
	assert.False(t, ok)
	_, ok = s.Value("Missing")
	assert.False(t, ok)
	_, ok = Slots(nil).Value("Ocean")
	assert.False(t, ok)
}

func TestResolveOceanError(t *testing.T) {
	_, err := resolveOcean(Slots{SlotOcean: "Gulf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSlotValue))
	assert.Equal(t, `slot Ocean: invalid value "Gulf"`, err.Error())

	_, err = resolveOcean(nil)
	assert.Equal(t, "slot Ocean: missing value", err.Error())
}

func TestSetOceanPreferenceRecordsSlotError(t *testing.T) {
	out := SetOceanPreference(Input{Slots: Slots{SlotOcean: "Gulf"}})
	assert.ErrorIs(t, out.SlotErr, ErrInvalidSlotValue)

	out = SetOceanPreference(Input{Slots: Slots{SlotOcean: "Atlantic"}})
	assert.NoError(t, out.SlotErr)
}

func TestSpokenList(t *testing.T) {
	assert.Equal(t, "", spokenList(nil))
	assert.Equal(t, "Alex", spokenList([]string{"Alex"}))
	assert.Equal(t, "Alex and Bonnie", spokenList([]string{"Alex", "Bonnie"}))
	assert.Equal(t, "Alex, Bonnie, and Colin", spokenList([]string{"Alex", "Bonnie", "Colin"}))
}

func TestFirstStormNamesIsCopy(t *testing.T) {
	names := FirstStormNames(OceanAtlantic)
	require.Len(t, names, 5)
	names[0] = "Zed"
	assert.Equal(t, "Alex", FirstStormNames(OceanAtlantic)[0])
	assert.Nil(t, FirstStormNames(OceanUnset))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `unrecognized intent "Unsupported"`, (&UnrecognizedIntentError{Name: "Unsupported"}).Error())
	assert.Equal(t, `unrecognized request type "Foo"`, (&UnrecognizedRequestTypeError{Type: "Foo"}).Error())
}
