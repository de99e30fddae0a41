package app

import (
	"strings"
	"testing"
)

const seedText = `
1) When you walk into a room you
a. take charge
b) start a conversation
c. look for a friend
d. observe first

  2)   Under pressure you
a. act fast
b. joke about it
c. stay calm
d. make a plan
`

func TestParseQuestionsWellFormed(t *testing.T) {
	questions := ParseQuestions(seedText)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.QuestionNumber != 1 || first.Text != "When you walk into a room you" {
		t.Fatalf("unexpected first question: %+v", first)
	}
	if len(first.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(first.Options))
	}
	if first.Options[1].Key != "b" || first.Options[1].Text != "start a conversation" {
		t.Fatalf("expected ')' delimited option, got %+v", first.Options[1])
	}
	if questions[1].QuestionNumber != 2 || questions[1].Text != "Under pressure you" {
		t.Fatalf("unexpected second question: %+v", questions[1])
	}
}

func TestParseQuestionsEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		options []int
		check   func(t *testing.T, text string)
	}{
		{
			name:    "option before any question is dropped",
			input:   "a. orphan\n1) Q\nb. kept",
			count:   1,
			options: []int{1},
		},
		{
			name:  "no markers yields empty list",
			input: "just prose\nmore prose",
			count: 0,
		},
		{
			name:    "period wins over parenthesis",
			input:   "1) Q\na. Text.with.dot",
			count:   1,
			options: []int{1},
			check: func(t *testing.T, text string) {
				if text != "Text.with.dot" {
					t.Fatalf("expected split on first '.', got %q", text)
				}
			},
		},
		{
			name:    "period later in a parenthesis line still wins",
			input:   "1) Q\na) Mr. Smith",
			count:   1,
			options: []int{1},
			check: func(t *testing.T, text string) {
				if text != "Smith" {
					t.Fatalf("expected text after first '.', got %q", text)
				}
			},
		},
		{
			name:    "option key outside a-d is ignored",
			input:   "1) Q\ne. nope\na. yes",
			count:   1,
			options: []int{1},
		},
		{
			name:    "delimiter must be followed by whitespace",
			input:   "1) Q\na.nospace\nb. fine",
			count:   1,
			options: []int{1},
		},
		{
			name:    "option with empty text is dropped",
			input:   "1) Q\na) ends with dot.\nb. fine",
			count:   1,
			options: []int{1},
		},
		{
			name:    "question without options",
			input:   "1) Q\n2) R",
			count:   2,
			options: []int{0, 0},
		},
		{
			name:    "crlf line endings",
			input:   "1) Q\r\na. one\r\nb. two\r\n",
			count:   1,
			options: []int{2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQuestions(tc.input)
			if len(got) != tc.count {
				t.Fatalf("expected %d questions, got %d (%+v)", tc.count, len(got), got)
			}
			for i, n := range tc.options {
				if len(got[i].Options) != n {
					t.Fatalf("question %d: expected %d options, got %+v", i, n, got[i].Options)
				}
			}
			if tc.check != nil {
				tc.check(t, got[0].Options[0].Text)
			}
		})
	}
}

func TestParseQuestionsIsRestartable(t *testing.T) {
	a := ParseQuestions(seedText)
	b := ParseQuestions(seedText)
	a[0].Options[0].Text = "changed"
	if b[0].Options[0].Text != "take charge" {
		t.Fatalf("parses must not share state")
	}
}

func TestParseQuestionsReaderMatchesString(t *testing.T) {
	fromReader, err := ParseQuestionsReader(strings.NewReader(seedText))
	if err != nil {
		t.Fatalf("parse reader: %v", err)
	}
	fromString := ParseQuestions(seedText)
	if len(fromReader) != len(fromString) {
		t.Fatalf("expected %d questions, got %d", len(fromString), len(fromReader))
	}
	for i := range fromString {
		if fromReader[i].Text != fromString[i].Text || len(fromReader[i].Options) != len(fromString[i].Options) {
			t.Fatalf("question %d differs: %+v vs %+v", i, fromReader[i], fromString[i])
		}
	}
}
