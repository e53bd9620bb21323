package client

type QuizAction string

const (
	ActionContinue     QuizAction = "continue"
	ActionGiveFeedback QuizAction = "give-feedback"
	ActionRetake       QuizAction = "retake"
)

// QuizView is the content of the quiz result popup.
type QuizView struct {
	Passed   bool
	Title    string
	Message  string
	Confetti bool
	Actions  []QuizAction
}

func QuizResult(passed bool) QuizView {
	if passed {
		return QuizView{
			Passed:   true,
			Title:    "Congratulations!",
			Message:  "You passed the quiz.",
			Confetti: true,
			Actions:  []QuizAction{ActionContinue, ActionGiveFeedback},
		}
	}
	return QuizView{
		Title:   "Not quite there yet",
		Message: "Review the lesson and try the quiz again.",
		Actions: []QuizAction{ActionRetake},
	}
}
