package kses

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

const (
	invalidConstraintCode = "KSES_INVALID_CONSTRAINT"
	invalidPolicyCode     = "KSES_INVALID_POLICY"
)

// TagRules maps a lowercase tag name to the attributes allowed on it. A tag
// missing from the map is removed from the output. A tag mapped to empty
// rules is kept but loses all of its attributes. The key "!--" allows HTML
// comments.
type TagRules map[string]AttributeRules

// AttributeRules maps a lowercase attribute name to the constraint its value
// must satisfy. Attributes missing from the map are removed.
type AttributeRules map[string]Constraint

// CheckKind identifies one of the supported attribute value checks.
type CheckKind uint8

const (
	checkInvalid CheckKind = iota
	CheckMaxLen
	CheckMinLen
	CheckMaxVal
	CheckMinVal
	CheckValueless
	CheckContent
)

var checkNames = map[CheckKind]string{
	CheckMaxLen:    "maxlen",
	CheckMinLen:    "minlen",
	CheckMaxVal:    "maxval",
	CheckMinVal:    "minval",
	CheckValueless: "valueless",
	CheckContent:   "content",
}

func (k CheckKind) String() string {
	if name, ok := checkNames[k]; ok {
		return name
	}
	return "invalid"
}

// Check is a single test applied to an attribute value. Build checks with
// MaxLen, MinLen, MaxVal, MinVal, Valueless and Content.
type Check struct {
	Kind      CheckKind
	Bound     int
	Valueless bool
	Patterns  []string
}

// MaxLen limits the value to n bytes.
func MaxLen(n int) Check { return Check{Kind: CheckMaxLen, Bound: n} }

// MinLen requires at least n bytes.
func MinLen(n int) Check { return Check{Kind: CheckMinLen, Bound: n} }

// MaxVal requires a small non-negative integer value not greater than n.
func MaxVal(n int) Check { return Check{Kind: CheckMaxVal, Bound: n} }

// MinVal requires a small non-negative integer value not smaller than n.
func MinVal(n int) Check { return Check{Kind: CheckMinVal, Bound: n} }

// Valueless requires the attribute to be written without a value (true),
// as in <option selected>, or with one (false).
func Valueless(expected bool) Check { return Check{Kind: CheckValueless, Valueless: expected} }

// Content requires the value to match one of the patterns. A '%' in a
// pattern matches any run of bytes; every other byte matches itself.
func Content(patterns ...string) Check {
	return Check{Kind: CheckContent, Patterns: append([]string(nil), patterns...)}
}

func (c Check) validate() error {
	switch c.Kind {
	case CheckMaxLen, CheckMinLen, CheckMaxVal, CheckMinVal:
		if c.Bound < 0 {
			return fmt.Errorf("%s must not be negative, got %d", c.Kind, c.Bound)
		}
	case CheckValueless:
	case CheckContent:
		if len(c.Patterns) == 0 {
			return fmt.Errorf("content needs at least one pattern")
		}
	default:
		return fmt.Errorf("unknown check kind %d", c.Kind)
	}
	return nil
}

// Constraint restricts the values an attribute may carry. The zero value is
// Unconstrained and accepts anything. A constraint with checks accepts a
// value only when every check passes.
type Constraint struct {
	Checks []Check
}

// Unconstrained accepts every value.
var Unconstrained = Constraint{}

// Checked builds a constraint from an ordered list of checks.
func Checked(checks ...Check) Constraint {
	return Constraint{Checks: append([]Check(nil), checks...)}
}

// IsUnconstrained reports whether c carries no checks.
func (c Constraint) IsUnconstrained() bool {
	return len(c.Checks) == 0
}

func (c Constraint) validate() error {
	for _, check := range c.Checks {
		if err := check.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Constraint) clone() Constraint {
	if c.IsUnconstrained() {
		return Unconstrained
	}
	out := make([]Check, len(c.Checks))
	for i, check := range c.Checks {
		check.Patterns = append([]string(nil), check.Patterns...)
		out[i] = check
	}
	return Constraint{Checks: out}
}

// Clone returns a deep copy of r with lowercase keys.
func (r AttributeRules) Clone() AttributeRules {
	out := make(AttributeRules, len(r))
	for name, c := range r {
		out[strings.ToLower(name)] = c.clone()
	}
	return out
}

// Clone returns a deep copy of t with lowercase keys.
func (t TagRules) Clone() TagRules {
	out := make(TagRules, len(t))
	for name, attrs := range t {
		out[strings.ToLower(name)] = attrs.Clone()
	}
	return out
}

// Validate reports every malformed check in t. Each failing entry is keyed
// by "tag.attribute".
func (t TagRules) Validate() error {
	if errs := t.validationErrors(); len(errs) > 0 {
		return wrapPolicyError(errs)
	}
	return nil
}

func (t TagRules) validationErrors() validation.Errors {
	errs := validation.Errors{}
	for tag, attrs := range t {
		if strings.TrimSpace(tag) == "" {
			errs["tags"] = validation.NewError("kses.tag.empty", "tag names must not be empty")
			continue
		}
		for name, c := range attrs {
			if strings.TrimSpace(name) == "" {
				errs[tag] = validation.NewError("kses.attribute.empty", "attribute names must not be empty")
				continue
			}
			if err := c.validate(); err != nil {
				errs[tag+"."+name] = validation.NewError("kses.constraint.invalid", err.Error())
			}
		}
	}
	return errs
}

// ParseConstraint converts a loosely typed constraint, as decoded from YAML
// or JSON, into a Constraint. true, nil, "1" and non-zero numbers mean
// Unconstrained. A map holds named checks: maxlen, minlen, maxval and minval
// take a non-negative integer or numeric string, valueless takes "y", "n" or
// a boolean, and content takes a pattern or a list of patterns.
func ParseConstraint(v any) (Constraint, error) {
	switch val := v.(type) {
	case nil:
		return Unconstrained, nil
	case Constraint:
		return val, wrapConstraintError(val.validate())
	case bool:
		if val {
			return Unconstrained, nil
		}
	case int:
		if val != 0 {
			return Unconstrained, nil
		}
	case int64:
		if val != 0 {
			return Unconstrained, nil
		}
	case uint64:
		if val != 0 {
			return Unconstrained, nil
		}
	case float64:
		if val != 0 {
			return Unconstrained, nil
		}
	case string:
		if val == "1" {
			return Unconstrained, nil
		}
	case map[string]any:
		return parseChecks(val)
	}
	return Unconstrained, wrapConstraintError(fmt.Errorf("unsupported constraint value %v (%T)", v, v))
}

func parseChecks(m map[string]any) (Constraint, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	checks := make([]Check, 0, len(keys))
	for _, key := range keys {
		raw := m[key]
		var check Check
		switch strings.ToLower(key) {
		case "maxlen", "minlen", "maxval", "minval":
			n, err := parseBound(raw)
			if err != nil {
				return Unconstrained, wrapConstraintError(fmt.Errorf("%s: %w", key, err))
			}
			switch strings.ToLower(key) {
			case "maxlen":
				check = MaxLen(n)
			case "minlen":
				check = MinLen(n)
			case "maxval":
				check = MaxVal(n)
			default:
				check = MinVal(n)
			}
		case "valueless":
			expected, err := parseValueless(raw)
			if err != nil {
				return Unconstrained, wrapConstraintError(err)
			}
			check = Valueless(expected)
		case "content":
			patterns, err := parsePatterns(raw)
			if err != nil {
				return Unconstrained, wrapConstraintError(err)
			}
			check = Content(patterns...)
		default:
			return Unconstrained, wrapConstraintError(fmt.Errorf("unknown check %q", key))
		}
		if err := check.validate(); err != nil {
			return Unconstrained, wrapConstraintError(err)
		}
		checks = append(checks, check)
	}
	return Checked(checks...), nil
}

// ParseAttributeRules converts a map of loosely typed constraints.
func ParseAttributeRules(m map[string]any) (AttributeRules, error) {
	rules := make(AttributeRules, len(m))
	for name, raw := range m {
		c, err := ParseConstraint(raw)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "attribute "+name).
				WithTextCode(invalidConstraintCode)
		}
		rules[strings.ToLower(name)] = c
	}
	return rules, nil
}

func parseBound(v any) (int, error) {
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int64:
		n = int(val)
	case uint64:
		n = int(val)
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("bound %v is not an integer", val)
		}
		n = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("bound %q is not numeric", val)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("bound %v (%T) is not numeric", v, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("bound %d must not be negative", n)
	}
	return n, nil
}

func parseValueless(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(val) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
	}
	return false, fmt.Errorf("valueless must be y, n or a boolean, got %v", v)
}

func parsePatterns(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("content pattern %v (%T) is not a string", item, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("content must be a string or a list of strings, got %T", v)
}

func wrapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid attribute constraint").
		WithTextCode(invalidConstraintCode)
}

func wrapPolicyError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid policy").
		WithTextCode(invalidPolicyCode)
}
