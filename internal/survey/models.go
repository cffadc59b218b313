package survey

// QuestionType is the single-enum replacement for the three mutually
// exclusive boolean columns (multiple_choice, scale, texts) the schema
// carries. Exactly one is persisted as true; ambiguous input is rejected
// before it reaches the store.
type QuestionType string

const (
	TypeMultiple QuestionType = "multiple"
	TypeScale    QuestionType = "scale"
	TypeText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultiple, TypeScale, TypeText:
		return true
	}
	return false
}

// flags returns the legacy boolean column triplet.
func (t QuestionType) flags() (multiple, scale, text bool) {
	return t == TypeMultiple, t == TypeScale, t == TypeText
}

func typeFromFlags(multiple, scale, text bool) QuestionType {
	switch {
	case multiple:
		return TypeMultiple
	case scale:
		return TypeScale
	case text:
		return TypeText
	}
	return TypeText
}

type Question struct {
	ID                int64        `json:"id"`
	SurveyID          string       `json:"survey_id"`
	StaffEmail        string       `json:"staff_email"`
	SurveyName        string       `json:"survey_name"`
	Text              string       `json:"text"`
	Type              QuestionType `json:"type"`
	ShuffleAnswers    bool         `json:"shuffle_answers"`
	ShuffleQuestions  bool         `json:"shuffle_questions"`
	SkipBasedOnAnswer bool         `json:"skip_based_on_answer"`
	ScoreQuestion     bool         `json:"score_question"`
	AddOtherOption    bool         `json:"add_other_option"`
	RequireAnswer     bool         `json:"require_answer"`
	Draft             bool         `json:"draft"`
	Options           []string     `json:"options,omitempty"`
}

// SurveySummary is one row of a staff member's survey list. A survey is
// summarized from its question rows; Draft reflects the shared draft marker.
type SurveySummary struct {
	SurveyID      string `json:"survey_id"`
	SurveyName    string `json:"survey_name"`
	Draft         bool   `json:"draft"`
	QuestionCount int    `json:"question_count"`
}
