package transform

const prefixLiteral = "PREFIX:"

// Prefix prepends the literal "PREFIX:" to line.
func Prefix(line []byte) ([]byte, error) {
	out := make([]byte, 0, len(prefixLiteral)+len(line))
	out = append(out, prefixLiteral...)
	out = append(out, line...)
	return out, nil
}
