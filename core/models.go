package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog records.
// It is generated using content-based hashing of the record's identity fields.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordType classifies a catalog record.
type RecordType string

const (
	// RecordTypeProfileAttribute is a person-level attribute field.
	RecordTypeProfileAttribute RecordType = "PROFILE_ATTRIBUTE"
	// RecordTypeEvent is a named behavioral event.
	RecordTypeEvent RecordType = "EVENT"
	// RecordTypeEventAttribute is an attribute field scoped to one event.
	RecordTypeEventAttribute RecordType = "EVENT_ATTRIBUTE"
)

// CatalogRecord is one entry in the semantic metadata catalog.
// GroupKey carries the scoping value: the source table for attributes,
// or the parent event's field identifier for event attributes.
type CatalogRecord struct {
	Id          ID
	Type        RecordType
	GroupKey    string
	FieldId     string
	DisplayName string
	Description string
	Metadata    map[string]string
	Vector      []float32 // Embedding of the description (populated at ingest time)
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Identity returns the string used for content-based ID generation.
func (r *CatalogRecord) Identity() string {
	return "(" + string(r.Type) + "," + r.GroupKey + "," + r.FieldId + ")"
}

// Hit is one candidate match returned by a similarity search,
// before deduplication and filtering.
type Hit struct {
	RecordId    ID
	Score       float32 // Cosine similarity, 0.0-1.0
	Type        RecordType
	GroupKey    string
	FieldId     string
	DisplayName string
	Metadata    map[string]string
}

// StageHit ties a Hit to the search text that produced it.
// ParentEventId is set for event-attribute hits and names the event
// identifier the search was scoped to.
type StageHit struct {
	Hit           Hit
	SearchText    string
	ParentEventId string
}

// StageResult accumulates the hits of one retrieval stage.
// A stage that failed contributes an empty hit list with Diagnostic set;
// the run continues and the diagnostic surfaces in logs only.
type StageResult struct {
	Hits       []StageHit
	Diagnostic string
}

// Failed reports whether the stage was absorbed after an error.
func (r StageResult) Failed() bool {
	return r.Diagnostic != ""
}

// ConfidenceLevel bands a score for presentation.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Item is one finalized answer row, derived from one or more hits
// collapsed by record ID.
type Item struct {
	FieldId     string          `json:"idname"`
	DisplayName string          `json:"source_name"`
	GroupKey    string          `json:"event_idname,omitempty"`
	SearchText  string          `json:"original_query"`
	Score       float32         `json:"score"`
	Confidence  ConfidenceLevel `json:"confidence_level"`
	Explanation string          `json:"explanation"`
}

// AmbiguityGroup surfaces near-tied candidates for the same search
// phrase so a caller can disambiguate. Ambiguity is advisory: the best
// candidate still appears in the normal result list.
type AmbiguityGroup struct {
	Category   string `json:"category"`
	SearchText string `json:"original_query"`
	Candidates []Item `json:"candidates"`
}

// Answer is the final result of one query run. It is built exactly once
// and never mutated after construction.
type Answer struct {
	Query             string           `json:"query"`
	IntentType        string           `json:"intent_type"`
	ProfileAttributes []Item           `json:"profile_attributes"`
	Events            []Item           `json:"events"`
	EventAttributes   []Item           `json:"event_attributes"`
	Summary           string           `json:"summary"`
	TotalResults      int              `json:"total_results"`
	ConfidenceScore   float64          `json:"confidence_score"`
	HasAmbiguity      bool             `json:"has_ambiguity"`
	AmbiguousOptions  []AmbiguityGroup `json:"ambiguous_options"`
	ExecutionTime     float64          `json:"execution_time"`
}
