package services

import (
	"context"
	"errors"
	"time"

	"diaconia/backend/errs"
	"diaconia/backend/models"
	"diaconia/backend/validation"
)

// QuizPolicy holds the fixed quiz rules. It is not configurable per course.
type QuizPolicy struct {
	QuestionsPerQuiz   int
	OptionsPerQuestion int
	PassScore          int // minimum score, out of 100, for a passing attempt
}

var DefaultQuizPolicy = QuizPolicy{
	QuestionsPerQuiz:   5,
	OptionsPerQuestion: 4,
	PassScore:          80,
}

// ValidateQuiz checks a quiz definition: empty, or exactly QuestionsPerQuiz questions each with
// exactly OptionsPerQuestion non-blank options of which exactly one is correct.
func (p QuizPolicy) ValidateQuiz(lessonTitle string, quiz []models.QuizQuestion) error {
	if len(quiz) == 0 {
		return nil
	}
	if len(quiz) != p.QuestionsPerQuiz {
		return errs.Validationf("lesson %q must have exactly %d quiz questions", lessonTitle, p.QuestionsPerQuiz)
	}
	for i, q := range quiz {
		if len(q.Options) != p.OptionsPerQuestion {
			return errs.Validationf("question %d of lesson %q must have exactly %d options", i+1, lessonTitle, p.OptionsPerQuestion)
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return errs.Validationf("question %d of lesson %q must have exactly 1 correct option", i+1, lessonTitle)
		}
		if err := validation.Struct(q); err != nil {
			return errs.Validationf("question %d of lesson %q has an empty question or option text", i+1, lessonTitle)
		}
	}
	return nil
}

type Evaluation struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Passed         bool
	Results        []models.QuestionResult
}

// Evaluate scores answers against quiz. It has no side effects.
func (p QuizPolicy) Evaluate(quiz []models.QuizQuestion, answers []models.QuizAnswer) (*Evaluation, error) {
	if len(quiz) != p.QuestionsPerQuiz {
		return nil, errs.Validationf("quiz must have exactly %d questions", p.QuestionsPerQuiz)
	}
	if len(answers) != p.QuestionsPerQuiz {
		return nil, errs.Validationf("must answer all %d questions", p.QuestionsPerQuiz)
	}

	seen := make(map[int]bool, len(answers))
	eval := &Evaluation{
		TotalQuestions: p.QuestionsPerQuiz,
		Results:        make([]models.QuestionResult, 0, len(answers)),
	}
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= p.QuestionsPerQuiz {
			return nil, errs.Validationf("questionIndex %d out of range", a.QuestionIndex)
		}
		if a.SelectedOption < 0 || a.SelectedOption >= p.OptionsPerQuestion {
			return nil, errs.Validationf("selectedOption %d out of range", a.SelectedOption)
		}
		if seen[a.QuestionIndex] {
			return nil, errs.Validationf("must answer all %d questions", p.QuestionsPerQuiz)
		}
		seen[a.QuestionIndex] = true

		correctOption := -1
		for oi, o := range quiz[a.QuestionIndex].Options {
			if o.IsCorrect {
				correctOption = oi
				break
			}
		}
		isCorrect := a.SelectedOption == correctOption
		if isCorrect {
			eval.CorrectAnswers++
		}
		eval.Results = append(eval.Results, models.QuestionResult{
			QuestionIndex:  a.QuestionIndex,
			SelectedOption: a.SelectedOption,
			CorrectOption:  correctOption,
			IsCorrect:      isCorrect,
		})
	}

	eval.Score = eval.CorrectAnswers * 100 / p.QuestionsPerQuiz
	eval.Passed = eval.Score >= p.PassScore
	return eval, nil
}

type PublicOption struct {
	OptionIndex int    `json:"optionIndex"`
	Text        string `json:"text"`
}

// PublicQuestion is a quiz question without its answer key.
type PublicQuestion struct {
	QuestionIndex int            `json:"questionIndex"`
	Question      string         `json:"question"`
	Options       []PublicOption `json:"options"`
}

type QuizService struct {
	courses  CourseRepo
	attempts AttemptRepo
	policy   QuizPolicy
	now      func() time.Time
}

func NewQuizService(courses CourseRepo, attempts AttemptRepo) *QuizService {
	return &QuizService{
		courses:  courses,
		attempts: attempts,
		policy:   DefaultQuizPolicy,
		now:      time.Now,
	}
}

func (s *QuizService) Policy() QuizPolicy {
	return s.policy
}

// Questions returns the quiz of a lesson of a published course with the correct answers stripped.
func (s *QuizService) Questions(ctx context.Context, courseID, moduleID, lessonID uint) ([]PublicQuestion, error) {
	course, err := findPublished(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	located, err := LocateLesson(course, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	if !located.Lesson.HasQuiz() {
		return nil, errs.NotFound("quiz")
	}

	questions := make([]PublicQuestion, 0, len(located.Lesson.Quiz))
	for qi, q := range located.Lesson.Quiz {
		options := make([]PublicOption, 0, len(q.Options))
		for oi, o := range q.Options {
			options = append(options, PublicOption{OptionIndex: oi, Text: o.Text})
		}
		questions = append(questions, PublicQuestion{
			QuestionIndex: qi,
			Question:      q.Question,
			Options:       options,
		})
	}
	return questions, nil
}

// Grade evaluates answers for a located lesson and records the attempt, passed or not.
func (s *QuizService) Grade(
	ctx context.Context, userID, courseID uint, located *LocatedLesson, answers []models.QuizAnswer,
) (*models.QuizAttempt, error) {
	if !located.Lesson.HasQuiz() {
		return nil, errs.NotFound("quiz")
	}

	eval, err := s.policy.Evaluate(located.Lesson.Quiz, answers)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAttempt{
		UserID:         userID,
		CourseID:       courseID,
		LessonID:       located.Lesson.ID,
		Answers:        answers,
		Results:        eval.Results,
		Score:          eval.Score,
		CorrectAnswers: eval.CorrectAnswers,
		TotalQuestions: eval.TotalQuestions,
		Passed:         eval.Passed,
		CompletedAt:    s.now(),
	}
	if located.ModuleID != FlatModule {
		moduleID := located.ModuleID
		attempt.ModuleID = &moduleID
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Attempts lists a learner's attempts for a lesson, most recent first.
func (s *QuizService) Attempts(ctx context.Context, userID, courseID, lessonID uint) ([]models.QuizAttempt, error) {
	return s.attempts.List(ctx, userID, courseID, lessonID)
}

// BestAttempt returns the highest scoring attempt, or nil when the learner has none.
func (s *QuizService) BestAttempt(ctx context.Context, userID, courseID, lessonID uint) (*models.QuizAttempt, error) {
	attempt, err := s.attempts.Best(ctx, userID, courseID, lessonID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	return attempt, err
}
