package model

// Story is a single trending HackerNews item. Items whose detail fetch
// fails validation are dropped, never represented as placeholders.
type Story struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Valid reports whether the item carries the minimum fields a story needs.
func (s Story) Valid() bool {
	return s.Title != "" && s.URL != ""
}

// SearchResult is one web-search hit.
type SearchResult struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

// ConsideredTopic is a candidate surfaced during topic selection.
type ConsideredTopic struct {
	Topic          string  `json:"topic"`
	Description    string  `json:"description"`
	SourceURL      string  `json:"source_url"`
	RelevanceScore float64 `json:"relevance_score"` // 0-1 relevance to data engineering / ML
}

// TopicSelectionResult is the structured output of the topic selection stage.
type TopicSelectionResult struct {
	SelectedTopic    ConsideredTopic `json:"selected_topic"`
	ConsideredTopics []string        `json:"considered_topics"`
}

// ReferenceLink is the address of a helpful resource.
type ReferenceLink struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ImageLink is the address of an image or figure explaining some context.
type ImageLink struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// EnhancedResearchResult is the structured output of the research stage.
type EnhancedResearchResult struct {
	Topic               string          `json:"topic"`
	OriginalDescription string          `json:"original_description"`
	OriginalSource      string          `json:"original_source"`
	TechnicalDetails    []string        `json:"technical_details"`
	BusinessImpact      string          `json:"business_impact"`
	Drawbacks           []string        `json:"drawbacks"`
	KeyInsights         []string        `json:"key_insights"`
	CodeExamples        []string        `json:"code_examples"`
	References          []ReferenceLink `json:"references"`
	Images              []ImageLink     `json:"images"`
}

// ResearchResult is the flat research payload used for Markdown assembly:
// narrative text plus the links and figures collected along the way.
type ResearchResult struct {
	FullText   string          `json:"full_text"`
	References []ReferenceLink `json:"references"`
	Images     []ImageLink     `json:"images"`
}
