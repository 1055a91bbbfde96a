package domain

// Difficulty orders course content from easiest to hardest.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Question models an MCQ item with exactly one correct choice key.
type Question struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Options     map[string]string `json:"options"` // choice key -> display text
	CorrectKey  string            `json:"correctKey"`
	Explanation string            `json:"explanation"`
	Topic       string            `json:"topic"`
	Difficulty  Difficulty        `json:"difficulty"`
	Day         int               `json:"day"` // course day the question was generated for
}

// WrongAnswer tracks a missed question pending a correct re-answer.
type WrongAnswer struct {
	Question    Question `json:"question"`
	MissedCount int      `json:"missedCount"`
	LastSeenDay int      `json:"lastSeenDay"`
}

// TopicStat accumulates per-topic accuracy.
type TopicStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// CourseState is the per-user, per-course progress snapshot.
type CourseState struct {
	UserID      string                  `json:"userId"`
	CourseID    string                  `json:"courseId"`
	CurrentDay  int                     `json:"currentDay"`
	WrongQueue  map[string]*WrongAnswer `json:"wrongQueue"` // keyed by question id
	TopicStats  map[string]TopicStat    `json:"topicStats"`
	DailyScores []float64               `json:"dailyScores"`
}

// NewCourseState creates a fresh enrollment at day one.
func NewCourseState(userID, courseID string) *CourseState {
	return &CourseState{
		UserID:      userID,
		CourseID:    courseID,
		CurrentDay:  1,
		WrongQueue:  make(map[string]*WrongAnswer),
		TopicStats:  make(map[string]TopicStat),
		DailyScores: nil,
	}
}

// Clone returns a deep copy so stores can hand out state that callers may mutate freely.
func (s *CourseState) Clone() *CourseState {
	if s == nil {
		return nil
	}
	out := &CourseState{
		UserID:     s.UserID,
		CourseID:   s.CourseID,
		CurrentDay: s.CurrentDay,
		WrongQueue: make(map[string]*WrongAnswer, len(s.WrongQueue)),
		TopicStats: make(map[string]TopicStat, len(s.TopicStats)),
	}
	for id, entry := range s.WrongQueue {
		copied := *entry
		copied.Question = entry.Question.clone()
		out.WrongQueue[id] = &copied
	}
	for topic, stat := range s.TopicStats {
		out.TopicStats[topic] = stat
	}
	out.DailyScores = append([]float64(nil), s.DailyScores...)
	return out
}

func (q Question) clone() Question {
	out := q
	out.Options = make(map[string]string, len(q.Options))
	for k, v := range q.Options {
		out.Options[k] = v
	}
	return out
}

// Submission carries a user's answers for a previously issued quiz.
type Submission struct {
	QuizID  string            `json:"quizId"`
	Answers map[string]string `json:"answers"` // question id -> submitted choice key
}

// DailyQuiz is one day's ordered question list plus its correlation id.
type DailyQuiz struct {
	QuizID      string     `json:"quizId"`
	Day         int        `json:"day"`
	Questions   []Question `json:"questions"`
	ReviewCount int        `json:"reviewCount"` // how many items came from the wrong-answer queue
}

// QuestionResult is the per-question outcome of an evaluation.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	SubmittedKey string `json:"submittedKey"`
	CorrectKey   string `json:"correctKey"`
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation"`
	Topic        string `json:"topic"`
}

// Evaluation summarizes a scored submission and the wrong-queue deltas.
type Evaluation struct {
	QuizID        string           `json:"quizId"`
	Score         float64          `json:"scorePercentage"`
	Results       []QuestionResult `json:"results"`
	NewWrong      []WrongAnswer    `json:"newWrongEntries"`
	ResolvedWrong []string         `json:"resolvedWrongEntries"` // question ids removed from the queue
}

// Mastery classifies per-topic accuracy.
type Mastery string

const (
	MasteryMastered   Mastery = "mastered"
	MasteryProficient Mastery = "proficient"
	MasteryLearning   Mastery = "learning"
)
