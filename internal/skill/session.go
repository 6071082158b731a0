package skill

// Ocean is the basin a user asked to hear storm information about.
type Ocean string

const (
	OceanUnset    Ocean = ""
	OceanAtlantic Ocean = "Atlantic"
	OceanPacific  Ocean = "Pacific"
)

// AttrOcean is the session attribute key carrying the ocean preference.
const AttrOcean = "ocean"

// ParseOcean accepts only the exact basin names. No case folding or partial
// matching is applied.
func ParseOcean(v string) (Ocean, bool) {
	switch Ocean(v) {
	case OceanAtlantic, OceanPacific:
		return Ocean(v), true
	}
	return OceanUnset, false
}

// Attributes is the per-conversation attribute bag. The zero value is an
// empty bag.
type Attributes struct {
	Ocean Ocean
}

func (a Attributes) HasOcean() bool { return a.Ocean != OceanUnset }

// Map renders the bag for the outbound envelope. Unset attributes are omitted.
func (a Attributes) Map() map[string]any {
	out := map[string]any{}
	if a.HasOcean() {
		out[AttrOcean] = string(a.Ocean)
	}
	return out
}

// AttributesFromMap reads the inbound attribute mapping. A nil map, unknown
// keys and unrecognised values all read as unset.
func AttributesFromMap(m map[string]any) Attributes {
	var a Attributes
	if v, ok := m[AttrOcean].(string); ok {
		if o, ok := ParseOcean(v); ok {
			a.Ocean = o
		}
	}
	return a
}

// Session is one multi-turn conversation as seen by the router.
type Session struct {
	ID            string
	New           bool
	ApplicationID string
	UserID        string
	Attributes    Attributes
}
