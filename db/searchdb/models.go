package searchdb

// Document is the indexed form of a catalog entity. The guid doubles as the
// bleve document id.
type Document struct {
	GUID            string   `json:"guid"`
	TypeName        string   `json:"type_name"`
	Status          string   `json:"status"`
	DisplayText     string   `json:"display_text"`
	Classifications []string `json:"classifications"`
	Labels          []string `json:"labels"`
	Content         string   `json:"content"`
}

type Hit struct {
	GUID  string  `json:"guid"`
	Score float64 `json:"score"`
}

type Response struct {
	Hits       []Hit   `json:"hits"`
	Total      uint64  `json:"total"`
	MaxScore   float64 `json:"max_score"`
	SearchTime string  `json:"search_time"`
}
