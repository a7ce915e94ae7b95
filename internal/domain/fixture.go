package domain

// FixtureLessonID is the lesson the development fixture quiz is attached to.
const FixtureLessonID = "60f8a8d5287f1e00203b5f9b"

// FixtureQuiz returns the three question development quiz. The ID is left
// empty; stores assign one on insert.
func FixtureQuiz() Quiz {
	return Quiz{
		LessonID: FixtureLessonID,
		Title:    "Simple Present Tense Quiz",
		Questions: []Question{
			{
				QuestionText:       "What is the correct form of the verb in: She ___ to work at 8 AM?",
				Options:            []string{"go", "goes", "going", "gone"},
				CorrectAnswerIndex: 1,
			},
			{
				QuestionText: "Which sentence is correct?",
				Options: []string{
					"He play football",
					"He plays football",
					"He playing football",
					"He played football",
				},
				CorrectAnswerIndex: 1,
			},
			{
				QuestionText: "Choose the correct sentence:",
				Options: []string{
					"They doesn't work here",
					"They don't works here",
					"They don't working here",
					"They don't work here",
				},
				CorrectAnswerIndex: 3,
			},
		},
	}
}
