package entities

// Question is a single multiple-choice question sourced from a question bank.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_option_id"`
	Explanation  string   `json:"explanation,omitempty"`
}

// SetMeta describes a question set.
type SetMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// QuestionSet is a loaded question bank part: its metadata plus the
// ordered questions.
type QuestionSet struct {
	Meta      SetMeta    `json:"metadata"`
	Questions []Question `json:"questions"`
}

// Part describes one discoverable chapter of a subject's question bank.
type Part struct {
	Num       int    // part number embedded in the filename
	Key       string // chapter key, e.g. "pt1"
	Title     string // display title from metadata, or a synthesized fallback
	SourceRef string // reference resolvable by the question source
}
