package engine

// Stage is one step of the escalating "No" button text.
type Stage struct {
	Attempt int
	Text    string
	Tooltip string
	Scale   float64
}

var stages = [...]Stage{
	{Attempt: 0, Scale: 1, Tooltip: "", Text: "No"},
	{Attempt: 1, Scale: 1, Tooltip: "Are you sure?", Text: "Really?"},
	{Attempt: 2, Scale: 1, Tooltip: "Really?", Text: "Are you sure?"},
	{Attempt: 3, Scale: 0.9, Tooltip: "Think again!", Text: "Think again!"},
	{Attempt: 4, Scale: 0.9, Tooltip: "Last chance!", Text: "Last chance!"},
	{Attempt: 5, Scale: 0.8, Tooltip: "Don't do this! 😢", Text: "Have a heart!"},
	{Attempt: 6, Scale: 0.8, Tooltip: "You're breaking my heart! 💔", Text: "Don't!"},
	{Attempt: 7, Scale: 0.7, Tooltip: "I'm gonna cry... 😭", Text: "I'm crying"},
	{Attempt: 8, Scale: 0.6, Tooltip: "PLEASE! 🙏", Text: "Please?"},
	{Attempt: 9, Scale: 0.6, Tooltip: "I'll do the dishes!", Text: "Free food?"},
	{Attempt: 10, Scale: 0.5, Tooltip: "Catch me if you can!", Text: "Catch me!"},
}

// LastStage is the index of the final stage; attempts past it stay there.
const LastStage = len(stages) - 1

// StageAt returns the stage for an attempt count, clamped to the table.
func StageAt(attempts int) Stage {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > LastStage {
		attempts = LastStage
	}
	return stages[attempts]
}

// Stages returns a copy of the table.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages[:])
	return out
}
