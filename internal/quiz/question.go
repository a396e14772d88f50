package quiz

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Difficulty levels.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// Operation choices.
const (
	AllOperations  = "all"
	Addition       = "addition"
	Subtraction    = "subtraction"
	Multiplication = "multiplication"
	Division       = "division"
)

var basicOps = []string{Addition, Subtraction, Multiplication, Division}

// limits are the operand ranges of one difficulty level.
type limits struct {
	max    int // addition and subtraction operands
	factor int // multiplication operands, divisor and quotient
}

var difficultyLimits = map[string]limits{
	Easy:   {max: 20, factor: 10},
	Medium: {max: 100, factor: 20},
	Hard:   {max: 1000, factor: 50},
}

// ValidDifficulty reports whether d is a known level.
func ValidDifficulty(d string) bool {
	_, ok := difficultyLimits[d]
	return ok
}

// ValidOperation reports whether op is a known operation choice.
func ValidOperation(op string) bool {
	switch op {
	case AllOperations, Addition, Subtraction, Multiplication, Division:
		return true
	}
	return false
}

// Question is one arithmetic problem. Answer is always an exact integer.
type Question struct {
	A         int    `json:"a"`
	B         int    `json:"b"`
	Operation string `json:"operation"`
	Symbol    string `json:"symbol"`
	Text      string `json:"text"`
	Answer    int    `json:"answer"`
}

// Generator draws random questions. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator over src. A nil src is seeded randomly.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// Next draws a question for the given difficulty and operation choice.
// Unknown values fall back to easy and all operations.
func (g *Generator) Next(difficulty, operation string) Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	lim, ok := difficultyLimits[difficulty]
	if !ok {
		lim = difficultyLimits[Easy]
	}
	op := operation
	if op == AllOperations || !ValidOperation(op) {
		op = basicOps[g.rng.IntN(len(basicOps))]
	}

	var q Question
	switch op {
	case Addition:
		q = Question{A: g.between(1, lim.max), B: g.between(1, lim.max), Symbol: "+"}
		q.Answer = q.A + q.B
	case Subtraction:
		a := g.between(1, lim.max)
		q = Question{A: a, B: g.between(1, a), Symbol: "-"}
		q.Answer = q.A - q.B
	case Multiplication:
		q = Question{A: g.between(1, lim.factor), B: g.between(1, lim.factor), Symbol: "×"}
		q.Answer = q.A * q.B
	default:
		divisor := g.between(2, lim.factor)
		quotient := g.between(1, lim.factor)
		q = Question{A: divisor * quotient, B: divisor, Symbol: "÷"}
		q.Answer = quotient
		op = Division
	}
	q.Operation = op
	q.Text = fmt.Sprintf("%d %s %d = ?", q.A, q.Symbol, q.B)
	return q
}
