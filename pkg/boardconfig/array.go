package boardconfig

// splitArray tokenizes the text after '{' up to the closing '}'. Values are
// separated by blanks and at most one comma. A comma with no value before
// it yields an empty token, so "{0.1,,0.2}" has three values. It fails if a
// comment marker or the end of the line comes before '}', or if more than
// capacity values are present.
func splitArray(body string, capacity int) ([]string, error) {
	tokens := make([]string, 0, capacity)
	i := 0
	for {
		i = skipBlank(body, i)
		if i == len(body) {
			return nil, ErrUnterminatedArray
		}
		switch body[i] {
		case '}':
			return tokens, nil
		case '/', '#', ';':
			return nil, ErrUnterminatedArray
		}

		if len(tokens) == capacity {
			return nil, ErrArrayOverflow
		}
		if body[i] == ',' {
			tokens = append(tokens, "")
			i++
			continue
		}

		start := i
		for i < len(body) && !isArrayDelim(body[i]) {
			i++
		}
		tokens = append(tokens, body[start:i])

		i = skipBlank(body, i)
		if i < len(body) && body[i] == ',' {
			i++
		}
	}
}

func isArrayDelim(c byte) bool {
	switch c {
	case ' ', '\t', ',', '}', '/', '#', ';':
		return true
	}
	return false
}
