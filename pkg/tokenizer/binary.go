package tokenizer

import "unicode/utf8"

// sniffLength is the number of leading bytes inspected by IsBinary.
const sniffLength = 8000

// IsBinary reports whether data looks like binary content: a NUL byte or
// invalid UTF-8 within the first sniffLength bytes.
func IsBinary(data []byte) bool {
	if len(data) > sniffLength {
		data = data[:sniffLength]
		// Do not penalize a multi-byte rune split by the cut.
		for i := 0; i < utf8.UTFMax && len(data) > 0 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return !utf8.Valid(data)
}

// CountBytes counts tokens in data. Binary data and a nil tokenizer count 0.
func CountBytes(tk Tokenizer, data []byte) int {
	if tk == nil || len(data) == 0 || IsBinary(data) {
		return 0
	}
	return tk.CountTokens(string(data))
}
