package curriculum

import "slices"

// Topic identifies one of the fixed subject areas the tutor covers.
type Topic string

const (
	TopicVariables         Topic = "variables"
	TopicDataTypes         Topic = "data_types"
	TopicControlStructures Topic = "control_structures"
	TopicFunctions         Topic = "functions"
	TopicLists             Topic = "lists"
)

// topicOrder is the fixed topic order. Coverage, tie-breaks, progress
// reports and synonym lookup all walk topics in this order.
var topicOrder = []Topic{
	TopicVariables,
	TopicDataTypes,
	TopicControlStructures,
	TopicFunctions,
	TopicLists,
}

// AllTopics returns every topic in fixed order.
func AllTopics() []Topic {
	return slices.Clone(topicOrder)
}

// ParseTopic returns the topic with the given identifier.
func ParseTopic(s string) (Topic, bool) {
	t := Topic(s)
	return t, t.Valid()
}

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	return slices.Contains(topicOrder, t)
}

// Label returns a human-readable name, e.g. "Control Structures".
func (t Topic) Label() string {
	switch t {
	case TopicVariables:
		return "Variables"
	case TopicDataTypes:
		return "Data Types"
	case TopicControlStructures:
		return "Control Structures"
	case TopicFunctions:
		return "Functions"
	case TopicLists:
		return "Lists"
	default:
		return titleWords(string(t))
	}
}

func (t Topic) String() string {
	return string(t)
}
