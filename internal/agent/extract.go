package agent

import "strings"

// ExtractCode strips markdown code-fence markup from raw model output.
//
// Grammar: a fence is a line whose trimmed form starts with three backticks,
// optionally followed by a single language tag. The first fenced block wins;
// an unterminated fence runs to end of input. Input without any fence is
// returned trimmed but otherwise unchanged, so extraction is idempotent and
// clean code passes straight through.
func ExtractCode(raw string) string {
	lines := strings.Split(raw, "\n")
	start := -1
	for i, line := range lines {
		if isFence(line) {
			start = i
			break
		}
	}
	if start == -1 {
		return strings.TrimSpace(raw)
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
}

// isFence reports whether a line is a code-fence marker: ``` plus at most
// one token (a language tag like "python").
func isFence(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "```") {
		return false
	}
	rest := strings.TrimPrefix(t, "```")
	return len(strings.Fields(rest)) <= 1
}
