package quest

import (
	"fmt"

	"github.com/prepquest/prepquest-backend/internal/model"
)

// sampleSize is the size of the generated fallback bank: enough for five full
// pages so study-mode paging stays usable while the upstream is down.
const sampleSize = 50

var sampleBase = []model.Question{
	{
		Instruction: "Choose the option that best completes the gap(s)... [Read More]",
		Text:        "You'd rather not attend the meeting ——",
		Options:     []string{"would you", "wouldn't you", "did you", "didn't you"},
		Answer:      "wouldn't you",
		Correction:  "The correct tag for a negative preference uses 'wouldn't you'.",
	},
	{
		Text: "'To have a chip on one's shoulder' suggests that someone",
		Options: []string{
			"is carrying a heavy load",
			"has an injury",
			"is resentful about something",
			"is feeling triumphant",
		},
		Answer:     "is resentful about something",
		Correction: "The idiom means bearing a grudge or resentment.",
	},
	{
		Text:       "Which organelle is responsible for energy production in cells?",
		Options:    []string{"Golgi apparatus", "Mitochondria", "Nucleus", "Ribosome"},
		Answer:     "Mitochondria",
		Correction: "Mitochondria carry out cellular respiration producing ATP.",
	},
	{
		Text:       "Simplify: 2x + 3x − x",
		Options:    []string{"4x", "3x", "2x", "5x"},
		Answer:     "4x",
		Correction: "2x + 3x − x = (2 + 3 − 1)x = 4x.",
	},
	{
		Text:       "Which is a chemical property of matter?",
		Options:    []string{"Density", "Boiling point", "Reactivity", "Color"},
		Answer:     "Reactivity",
		Correction: "Reactivity describes how a substance interacts chemically.",
	},
	{
		Text:       "The past participle of 'go' is",
		Options:    []string{"went", "gone", "go", "going"},
		Answer:     "gone",
		Correction: "Go → went → gone.",
	},
	{
		Text:       "Nigeria's capital city is",
		Options:    []string{"Lagos", "Abuja", "Ibadan", "Kano"},
		Answer:     "Abuja",
		Correction: "Abuja became the capital in 1991.",
	},
	{
		Text:       "Which law states that current is directly proportional to voltage?",
		Options:    []string{"Boyle's law", "Ohm's law", "Newton's first law", "Hooke's law"},
		Answer:     "Ohm's law",
		Correction: "V = IR.",
	},
	{
		Instruction: "Read the sentence and choose the correct synonym.",
		Text:        "Select the synonym of 'benevolent'",
		Options:     []string{"kind", "hostile", "stingy", "rude"},
		Answer:      "kind",
		Correction:  "Benevolent means kind or charitable.",
	},
	{
		Text:       "Which gas is most abundant in Earth's atmosphere?",
		Options:    []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Argon"},
		Answer:     "Nitrogen",
		Correction: "Nitrogen is about 78% of the atmosphere.",
	},
	{
		Text:       "Find the value: 7² − 5²",
		Options:    []string{"24", "12", "49", "25"},
		Answer:     "24",
		Correction: "49 − 25 = 24.",
	},
	{
		Text:       "Which layer of the plant is responsible for photosynthesis?",
		Options:    []string{"Xylem", "Phloem", "Mesophyll", "Epidermis"},
		Answer:     "Mesophyll",
		Correction: "Chloroplasts are abundant in mesophyll cells.",
	},
}

// SampleBank returns the local fallback question set. Questions cycle through
// a fixed base with a numeric suffix so repeated entries stay distinguishable.
// The result is deterministic: the same bank on every call.
func SampleBank() []model.Question {
	bank := make([]model.Question, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		q := sampleBase[i%len(sampleBase)]
		if q.Text != "" {
			q.Text = fmt.Sprintf("%s (%d)", q.Text, i+1)
		}
		bank = append(bank, q)
	}
	return bank
}

// samplePage slices the fallback bank at the same offset the requested remote
// page would have covered.
func samplePage(page int) []model.Question {
	bank := SampleBank()
	start := (page - 1) * PageSize
	if start >= len(bank) {
		return nil
	}
	end := start + PageSize
	if end > len(bank) {
		end = len(bank)
	}
	return bank[start:end]
}
