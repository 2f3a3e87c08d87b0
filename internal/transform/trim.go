package transform

// Trim removes leading and trailing ASCII whitespace from line.
func Trim(line []byte) ([]byte, error) {
	start := 0
	for start < len(line) && isASCIISpace(line[start]) {
		start++
	}
	end := len(line)
	for end > start && isASCIISpace(line[end-1]) {
		end--
	}

	out := make([]byte, end-start)
	copy(out, line[start:end])
	return out, nil
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
