package app

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"color-quiz-service/internal/domain"
)

var (
	questionLineRx = regexp.MustCompile(`^(\d+)\)`)
	optionLineRx   = regexp.MustCompile(`^[a-d][.)]\s`)
)

// ParseQuestions converts seed text into questions in source order.
// Malformed lines are skipped; text without question markers yields an empty list.
func ParseQuestions(text string) []domain.Question {
	var f questionFold
	for _, line := range strings.Split(text, "\n") {
		f = f.step(line)
	}
	return f.finish()
}

// ParseQuestionsReader is ParseQuestions over a stream. Only read errors are returned.
func ParseQuestionsReader(r io.Reader) ([]domain.Question, error) {
	var f questionFold
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		f = f.step(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return f.finish(), nil
}

// questionFold is the accumulator of the line fold: closed questions plus the open one.
type questionFold struct {
	done []domain.Question
	open *domain.Question
}

func (f questionFold) step(raw string) questionFold {
	line := strings.TrimSpace(raw)
	if line == "" {
		return f
	}

	if m := questionLineRx.FindStringSubmatch(line); m != nil {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			return f
		}
		f.done = f.closeOpen()
		f.open = &domain.Question{
			QuestionNumber: number,
			Text:           strings.TrimSpace(line[strings.Index(line, ")")+1:]),
			Options:        []domain.Option{},
		}
		return f
	}

	if optionLineRx.MatchString(line) {
		if f.open == nil {
			return f
		}
		text := optionText(line)
		if text == "" {
			return f
		}
		next := *f.open
		next.Options = append(append([]domain.Option(nil), f.open.Options...), domain.Option{
			Key:  line[:1],
			Text: text,
		})
		f.open = &next
	}
	return f
}

func (f questionFold) closeOpen() []domain.Question {
	if f.open == nil {
		return f.done
	}
	return append(f.done, *f.open)
}

func (f questionFold) finish() []domain.Question {
	out := f.closeOpen()
	if out == nil {
		return []domain.Question{}
	}
	return out
}

// optionText splits on the first '.' anywhere in the line, and only falls back to ')'
// when the line has no '.' at all.
func optionText(line string) string {
	if i := strings.Index(line, "."); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line[strings.Index(line, ")")+1:])
}
