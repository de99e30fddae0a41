package domain

import "time"

// AnswerCount is the number of answers a complete submission must carry.
const AnswerCount = 15

// Reserved bootstrap credentials. They only work until a real admin registers.
const (
	DefaultAdminEmail    = "admin@admin.com"
	DefaultAdminPassword = "admin"
)

// Color is one of the four result buckets.
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
)

// OptionColors maps option keys to the bucket they score into.
var OptionColors = map[string]Color{
	"a": Red,
	"b": Yellow,
	"c": Green,
	"d": Blue,
}

// Option is one of the four choices of a question.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a numbered prompt with its options in source order.
type Question struct {
	QuestionNumber int      `json:"questionNumber"`
	Text           string   `json:"text"`
	Options        []Option `json:"options"`
}

// SelectedOption is one ranked pick inside an answer. Points are supplied by the client.
type SelectedOption struct {
	Key    string `json:"key"`
	Points int    `json:"points"`
}

// Answer holds the one or two options picked for a question, best first.
type Answer struct {
	QuestionNumber  int              `json:"questionNumber"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// ColorTotals is the outcome of scoring a submission.
type ColorTotals struct {
	Red    int `json:"redPoints"`
	Yellow int `json:"yellowPoints"`
	Green  int `json:"greenPoints"`
	Blue   int `json:"bluePoints"`
}

// Add credits points to the bucket of c.
func (t *ColorTotals) Add(c Color, points int) {
	switch c {
	case Red:
		t.Red += points
	case Yellow:
		t.Yellow += points
	case Green:
		t.Green += points
	case Blue:
		t.Blue += points
	}
}

// QuizResult is a stored, scored submission. It is never modified after creation.
type QuizResult struct {
	ID      string   `json:"resultId"`
	Answers []Answer `json:"answers"`
	ColorTotals
	CreatedAt time.Time `json:"createdAt"`
}

// ResultSummary is the public view of a QuizResult.
type ResultSummary struct {
	ResultID string `json:"resultId"`
	ColorTotals
	CreatedAt time.Time `json:"createdAt"`
}

// Summary drops the raw answers.
func (r QuizResult) Summary() ResultSummary {
	return ResultSummary{ResultID: r.ID, ColorTotals: r.ColorTotals, CreatedAt: r.CreatedAt}
}

// AdminUser is an administrative account.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsDefault reports whether a is the seeded bootstrap account.
func (a AdminUser) IsDefault() bool {
	return a.Email == DefaultAdminEmail
}

// AdminState is a single consistent read of the bootstrap ratchet.
type AdminState struct {
	DefaultExists    bool `json:"exists"`
	OtherAdminExists bool `json:"otherAdminExists"`
}

// AdminProfile is what an authenticated admin sees about itself.
type AdminProfile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
	IsDefaultAdmin bool      `json:"isDefaultAdmin"`
}

// AuthToken is returned by login and registration.
type AuthToken struct {
	Token          string `json:"token"`
	IsDefaultAdmin bool   `json:"isDefaultAdmin"`
}
