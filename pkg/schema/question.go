package schema

// Question is a single follow-up question generated from a preliminary
// analysis. Read-only once generated; options are ordered and unique
// within the question.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
}

// HasOption reports whether option is one of the question's options.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// AnswerSet maps question IDs to the selected option. Entries are recorded
// one at a time; re-answering a question overwrites the prior entry.
type AnswerSet map[string]string

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	clone := make(AnswerSet, len(a))
	for id, option := range a {
		clone[id] = option
	}
	return clone
}
