package kses

// accepts reports whether attr satisfies c. Every check must pass.
func (c Constraint) accepts(attr attribute) bool {
	for _, check := range c.Checks {
		if !check.accepts(attr) {
			return false
		}
	}
	return true
}

func (c Check) accepts(attr attribute) bool {
	switch c.Kind {
	case CheckMaxLen:
		return len(attr.value) <= c.Bound
	case CheckMinLen:
		return len(attr.value) >= c.Bound
	case CheckMaxVal:
		n, ok := smallNumber(attr.value)
		return ok && n <= c.Bound
	case CheckMinVal:
		n, ok := smallNumber(attr.value)
		return ok && n >= c.Bound
	case CheckValueless:
		return attr.valueless == c.Valueless
	case CheckContent:
		for _, pattern := range c.Patterns {
			if wildcardMatch(pattern, attr.value) {
				return true
			}
		}
		return false
	}
	return false
}

// smallNumber parses values of the form \s{0,6}[0-9]{1,6}\s{0,6}. Anything
// longer is refused so that huge numbers never reach the comparison.
func smallNumber(s string) (int, bool) {
	i := 0
	for i < len(s) && i < 6 && isSpace(s[i]) {
		i++
	}
	start := i
	n := 0
	for i < len(s) && isDigit(s[i]) {
		if i-start == 6 {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	trail := 0
	for i < len(s) && isSpace(s[i]) {
		if trail == 6 {
			return 0, false
		}
		trail++
		i++
	}
	if i != len(s) {
		return 0, false
	}
	return n, true
}

// wildcardMatch matches s against pattern, where '%' stands for any run of
// bytes.
func wildcardMatch(pattern, s string) bool {
	p, i := 0, 0
	star, mark := -1, 0
	for i < len(s) {
		switch {
		case p < len(pattern) && pattern[p] == '%':
			star, mark = p, i
			p++
		case p < len(pattern) && pattern[p] == s[i]:
			p++
			i++
		case star >= 0:
			mark++
			p, i = star+1, mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '%' {
		p++
	}
	return p == len(pattern)
}
