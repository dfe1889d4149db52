package model

func ptr[T any](v T) *T {
	return &v
}

func entity(guid string) *EntityHeader {
	return &EntityHeader{GUID: ptr(guid)}
}

func namedEntity(guid string, name string) *EntityHeader {
	return &EntityHeader{GUID: ptr(guid), DisplayText: name}
}

func guidsOf(entities []*EntityHeader) []string {
	guids := make([]string, len(entities))
	for i, e := range entities {
		if g := e.GetGUID(); g != nil {
			guids[i] = *g
		} else {
			guids[i] = "<nil>"
		}
	}
	return guids
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}

func negativeZero() float64 {
	zero := 0.0
	return -zero
}
