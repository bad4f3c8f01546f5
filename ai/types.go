package ai

// AttributeQuery is one person-level attribute request extracted from a
// query. Name is a short label for the attribute being asked about and
// SearchText is the phrase used for catalog similarity search.
type AttributeQuery struct {
	Name       string
	SearchText string
}

// EventQuery is one behavioral event request extracted from a query.
// AttributeTexts holds search phrases for attributes scoped to the
// event, each already combined into "name: value" form.
type EventQuery struct {
	SearchText     string
	AttributeTexts []string
}

// Intent is the structured decomposition of a natural-language query.
type Intent struct {
	ProfileAttributes []AttributeQuery
	Events            []EventQuery
}

// Empty reports whether extraction found nothing to search for.
func (i *Intent) Empty() bool {
	return len(i.ProfileAttributes) == 0 && len(i.Events) == 0
}

// EventAttributeTexts flattens the attribute phrases of all events,
// preserving order. Used by the event-attribute retrieval stage.
func (i *Intent) EventAttributeTexts() []string {
	var texts []string
	for _, event := range i.Events {
		texts = append(texts, event.AttributeTexts...)
	}
	return texts
}
