package cli

import "timed-quiz-service/internal/domain"

// defaultQuizzes is served when neither Postgres nor a quiz file is configured.
func defaultQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		defaultQuizID: {
			ID:              defaultQuizID,
			Title:           "Coding Quiz",
			DurationSeconds: 60,
			Questions: []domain.Question{
				{
					ID:          "array-literal",
					Prompt:      "Which one is an example of an array?",
					Answer:      "var array = []",
					Distractors: []string{"var array = {}", "var array = ()", "var array = <>"},
				},
				{
					ID:          "create-element",
					Prompt:      "Which DOM method is used to create a new HTML element?",
					Answer:      "document.createElement()",
					Distractors: []string{"document.newElement()", "document.element()", "document.spawnElement()"},
				},
				{
					ID:          "first-class-functions",
					Prompt:      "True or False: Functions can be passed as arguments to other functions.",
					Answer:      "true",
					Distractors: []string{"false"},
				},
				{
					ID:          "and-operator",
					Prompt:      "What operator is used to represent AND statements?",
					Answer:      "&&",
					Distractors: []string{"||", "+", "&"},
				},
				{
					ID:          "jquery-language",
					Prompt:      "True or False: jQuery is a different language from JavaScript.",
					Answer:      "false",
					Distractors: []string{"true"},
				},
				{
					ID:          "variable-assignment",
					Prompt:      "Which of the following is an example of a valid variable assignment?",
					Answer:      "All Choices.",
					Distractors: []string{`const x = "string";`, "let y = 10;", "var z = [];"},
				},
				{
					ID:          "strict-equality",
					Prompt:      "Which operator will compare if two literals are the exact same?",
					Answer:      "===",
					Distractors: []string{"==", "*=", "!="},
				},
			},
		},
	}
}
