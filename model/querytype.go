package model

// QueryType names the dialect a query text is written in.
type QueryType int

const (
	QueryTypeDSL QueryType = iota
	QueryTypeFullText
	QueryTypeGremlin
)

var queryTypeNames = []string{"DSL", "FULL_TEXT", "GREMLIN"}

// QueryTypes returns every member in declaration order.
func QueryTypes() []QueryType {
	return []QueryType{QueryTypeDSL, QueryTypeFullText, QueryTypeGremlin}
}

// String returns the wire identifier of the query type.
func (q QueryType) String() string {
	if !q.IsValid() {
		return "UNKNOWN"
	}
	return queryTypeNames[q]
}

func (q QueryType) IsValid() bool {
	return q >= QueryTypeDSL && q <= QueryTypeGremlin
}

func ParseQueryType(s string) (QueryType, error) {
	for i, name := range queryTypeNames {
		if name == s {
			return QueryType(i), nil
		}
	}
	return 0, &UnknownEnumMemberError{Enum: "query type", Value: s}
}

func (q QueryType) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, &UnknownEnumMemberError{Enum: "query type", Value: q.String()}
	}
	return []byte(q.String()), nil
}

// UnmarshalText is strict: values outside the closed set are rejected.
// Use DecodeJSON/DecodeXML with EnumLenient to tolerate them.
func (q *QueryType) UnmarshalText(text []byte) error {
	parsed, err := ParseQueryType(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Ptr returns a pointer to a copy of q, handy for filling optional fields.
func (q QueryType) Ptr() *QueryType {
	return &q
}
