package curriculum

import "strings"

// topicSynonyms maps each topic to the phrases that signal it.
// Phrases are stored in normalized form.
var topicSynonyms = map[Topic][]string{
	TopicVariables: {
		"variable", "variables", "var", "assignment", "assign",
	},
	TopicDataTypes: {
		"data type", "data types", "types", "string", "integer", "float",
		"boolean", "int", "str", "bool", "type casting", "type conversion",
	},
	TopicControlStructures: {
		"if", "else", "elif", "loop", "loops", "for loop", "while loop",
		"for", "while", "conditional", "conditionals", "control structure",
		"control flow", "iteration", "branching",
	},
	TopicFunctions: {
		"function", "functions", "def", "return", "parameter", "parameters",
		"argument", "arguments", "lambda", "decorator", "recursion",
	},
	TopicLists: {
		"list", "lists", "append", "index", "indexing", "slicing", "slice",
		"list comprehension",
	},
}

// Synonyms returns the trigger phrases for a topic.
func Synonyms(t Topic) []string {
	return append([]string(nil), topicSynonyms[t]...)
}

// ExtractTopic finds the first topic, in fixed topic order, with a synonym
// occurring as a whole word or phrase in text. Fragments inside longer
// words never match: "format" does not signal data_types via "for".
func ExtractTopic(text string) (Topic, bool) {
	norm := Normalize(text)
	if norm == "" {
		return "", false
	}
	padded := " " + norm + " "

	for _, t := range topicOrder {
		for _, syn := range topicSynonyms[t] {
			if norm == syn || strings.Contains(padded, " "+syn+" ") {
				return t, true
			}
		}
	}
	return "", false
}
