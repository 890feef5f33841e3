package intent

// defaultPhrases holds the trigger phrases for each phrase-driven intent.
var defaultPhrases = map[Intent][]string{
	Quiz: {
		"quiz me", "test me", "give me a question", "ask me a question",
		"quiz", "test", "question please", "ask me about", "practice",
		"give me a quiz", "try a question", "challenge me",
	},
	Hint: {
		"give me a hint", "hint", "hint please", "help me", "i'm stuck",
		"im stuck", "i need help", "can i get a hint", "i don't know",
		"i dont know", "clue", "give me a clue",
	},
	Explain: {
		"explain", "what is", "what are", "how does", "how do", "tell me about",
		"teach me", "describe", "can you explain", "what does",
		"help me understand", "i want to learn",
	},
	Progress: {
		"how am i doing", "my score", "my progress", "show stats", "progress",
		"show my progress", "how am i performing", "what's my score", "score",
		"stats", "performance",
	},
	Greeting: {
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"start", "hi there", "howdy", "greetings",
	},
	Farewell: {
		"bye", "goodbye", "quit", "exit", "see you", "later", "done", "i'm done",
		"im done", "stop", "end session", "thanks bye", "thank you bye",
	},
}
