package store

import (
	"context"
	"fmt"

	"log/slog"
)

type seedQuestion struct {
	subject    string
	difficulty int
	qtype      string
	question   string
	answer     string
	hint       string
}

var questionBank = []seedQuestion{
	{"math", 1, "calculation", "What is 15 × 8?", "120", "Think: 15 × 8 = 15 × (10 - 2)"},
	{"math", 1, "calculation", "What is 234 + 567?", "801", "Add the units, tens, and hundreds separately"},
	{"math", 1, "calculation", "What is 25% of 80?", "20", "25% = 1/4, so divide 80 by 4"},
	{"math", 1, "conversion", "Convert 3/4 to a decimal", "0.75", "Divide 3 by 4"},
	{"math", 2, "algebra", "Solve for x: 2x + 5 = 17", "6", "Subtract 5 from both sides, then divide by 2"},
	{"math", 2, "geometry", "What is the area of a circle with radius 5? (Use π = 3.14)", "78.5", "Area = πr²"},
	{"math", 2, "fractions", "What is 2/3 + 1/6?", "5/6", "Find common denominator first"},
	{"math", 3, "algebra", "Factor: x² + 5x + 6", "(x+2)(x+3)", "Find two numbers that multiply to 6 and add to 5"},
	{"math", 3, "sequences", "What is the next number: 2, 6, 12, 20, 30, ?", "42", "Look at the differences: 4, 6, 8, 10..."},
	{"math", 3, "probability", "What is the probability of rolling a sum of 7 with two dice?", "1/6", "Count favorable outcomes: (1,6), (2,5), (3,4), (4,3), (5,2), (6,1)"},
	{"science", 1, "chemistry", "What is the chemical symbol for gold?", "Au", "From Latin 'aurum'"},
	{"science", 1, "biology", "What gas do plants absorb from the atmosphere?", "carbon dioxide", "Used in photosynthesis"},
	{"science", 1, "physics", "What is the unit of force?", "newton", "Named after Sir Isaac..."},
	{"science", 1, "astronomy", "How many planets are in our solar system?", "8", "Pluto was reclassified in 2006"},
	{"science", 2, "biology", "What is the powerhouse of the cell?", "mitochondria", "Produces ATP"},
	{"science", 2, "chemistry", "What is the pH of pure water?", "7", "Neutral pH"},
	{"science", 3, "physics", "What is the speed of light in m/s?", "299792458", "Approximately 3×10⁸"},
	{"english", 1, "grammar", "What type of word is 'quickly'?", "adverb", "Modifies a verb"},
	{"english", 1, "grammar", "What is the plural of 'child'?", "children", "Irregular plural"},
	{"english", 2, "literature", "Who wrote 'Romeo and Juliet'?", "Shakespeare", "The Bard of Avon"},
	{"english", 2, "grammar", "What literary device is 'The stars danced'?", "personification", "Giving human qualities to non-human things"},
	{"history", 1, "dates", "In what year did World War II end?", "1945", "Victory in Europe and Japan"},
	{"history", 1, "people", "Who was the first President of the United States?", "George Washington", "On the one dollar bill"},
	{"history", 2, "events", "What year did the Berlin Wall fall?", "1989", "End of Cold War era"},
	{"history", 3, "dates", "When was the Magna Carta signed?", "1215", "13th century England"},
}

// SeedQuestions populates the question bank once; a non-empty table skips it
func SeedQuestions(ctx context.Context, p *Postgres, log *slog.Logger) error {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, q := range questionBank {
		if _, err := p.pool.Exec(ctx, `
			INSERT INTO questions (subject, difficulty, qtype, question, correct_answer, hint, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, q.subject, q.difficulty, q.qtype, q.question, q.answer, q.hint,
			fmt.Sprintf("The correct answer is %s", q.answer)); err != nil {
			return err
		}
	}
	log.Info("seed.questions", "count", len(questionBank))
	return nil
}
