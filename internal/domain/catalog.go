package domain

// DefaultQuestions is the built-in trivia catalog served when no database is configured.
func DefaultQuestions() []Question {
	return []Question{
		{ID: 0, Text: "Why did the QA engineer go to the bar?", Answer: "To test the bartender's skills"},
		{ID: 1, Text: "How many QA engineers does it take to change a light bulb?", Answer: "42"},
		{ID: 2, Text: "Did the QA engineer enjoy their last bug hunt?", Answer: "true"},
		{ID: 3, Text: "Why did the QA engineer drown in the pool?", Answer: "Because they didn't receive the 'float' property!"},
		{ID: 4, Text: "Is it possible for a QA engineer to have too much coffee?", Answer: "false"},
	}
}
