package studio

// suggestions are the example prompts offered next to the prompt input.
var suggestions = []string{
	"A minimalist architectural design in a futuristic city",
	"Abstract data visualization with neural network patterns",
	"Cyberpunk street scene with neon reflections",
	"Modern interior design with smart home technology",
	"Futuristic vehicle concept with clean lines",
	"AI brain concept with glowing neural connections",
}

// Suggestions returns a copy of the example prompts.
func Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
