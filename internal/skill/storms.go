package skill

import "strings"

// firstStorms lists the first five names on this season's rotating list for
// each basin.
var firstStorms = map[Ocean][]string{
	OceanAtlantic: {"Alex", "Bonnie", "Colin", "Danielle", "Earl"},
	OceanPacific:  {"Agatha", "Blas", "Celia", "Darby", "Estelle"},
}

// FirstStormNames returns a copy of the first five storm names for o, or nil
// when o is unset.
func FirstStormNames(o Ocean) []string {
	names := firstStorms[o]
	if names == nil {
		return nil
	}
	return append([]string(nil), names...)
}

// spokenList joins names the way they are read aloud: "a, b, and c".
func spokenList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}
