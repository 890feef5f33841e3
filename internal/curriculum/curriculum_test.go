package curriculum

import "testing"

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		text   string
		want   Topic
		wantOK bool
	}{
		{"Quiz me on lists", TopicLists, true},
		{"Explain how for loops work", TopicControlStructures, true},
		{"what is a variable?", TopicVariables, true},
		{"type conversion please", TopicDataTypes, true},
		{"list", TopicLists, true},
		{"LAMBDA!", TopicFunctions, true},
		{"what is the weather", "", false},
		{"format the information", "", false},
		{"", "", false},
		// variables comes before lists in fixed order
		{"assign a list", TopicVariables, true},
	}

	for _, tt := range tests {
		got, ok := ExtractTopic(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractTopic(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"What's a for-loop?":   "whats a for loop",
		"  I DON'T   know  ":   "i dont know",
		"data_types":           "data types",
		"print('hi')":          "print hi",
		"":                     "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDifficultyLadderClamps(t *testing.T) {
	if got := Advanced.Promote(); got != Advanced {
		t.Errorf("Advanced.Promote() = %q, want advanced", got)
	}
	if got := Beginner.Demote(); got != Beginner {
		t.Errorf("Beginner.Demote() = %q, want beginner", got)
	}
	if got := Beginner.Promote(); got != Intermediate {
		t.Errorf("Beginner.Promote() = %q, want intermediate", got)
	}
	if got := Intermediate.Demote(); got != Beginner {
		t.Errorf("Intermediate.Demote() = %q, want beginner", got)
	}
	if got := Difficulty("bogus").Promote(); got != Intermediate {
		t.Errorf("unknown.Promote() = %q, want intermediate", got)
	}
}

func TestTopicLabels(t *testing.T) {
	if got := TopicControlStructures.Label(); got != "Control Structures" {
		t.Errorf("Label() = %q", got)
	}
	if got := Intermediate.Label(); got != "Intermediate" {
		t.Errorf("Label() = %q", got)
	}
}

func TestAllTopics_ReturnsCopy(t *testing.T) {
	a := AllTopics()
	a[0] = "changed"
	if AllTopics()[0] != TopicVariables {
		t.Error("AllTopics returned the internal slice")
	}
}

func TestParse(t *testing.T) {
	if _, ok := ParseTopic("recursion"); ok {
		t.Error("ParseTopic accepted an unknown topic")
	}
	if d, ok := ParseDifficulty("advanced"); !ok || d != Advanced {
		t.Errorf("ParseDifficulty(advanced) = (%q, %v)", d, ok)
	}
}
