package transform

const suffixLiteral = ":SUFFIX"

// Suffix appends the literal ":SUFFIX" to line.
func Suffix(line []byte) ([]byte, error) {
	out := make([]byte, 0, len(line)+len(suffixLiteral))
	out = append(out, line...)
	out = append(out, suffixLiteral...)
	return out, nil
}
