package schema

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"unicode/utf8"
)

// Violation describes the first rule a field value failed.
type Violation struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Result maps field ids to their violation. Valid fields are absent.
type Result map[string]Violation

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Messages flattens the result into field id -> message.
func (r Result) Messages() map[string]string {
	out := make(map[string]string, len(r))
	for id, v := range r {
		out[id] = v.Message
	}
	return out
}

// Rules flattens the result into field id -> rule name.
func (r Result) Rules() map[string]string {
	out := make(map[string]string, len(r))
	for id, v := range r {
		out[id] = string(v.Rule)
	}
	return out
}

// Fields returns the invalid field ids in lexical order.
func (r Result) Fields() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var patternCache sync.Map // pattern -> *regexp.Regexp

// CompilePattern compiles and caches a field pattern.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// ValidateField applies the field's rules to its value in draft.
// Rules run in precedence order (required, min length, pattern, equality) and
// the first failure is returned. ok is true when the value is valid.
func ValidateField(def Field, draft map[string]string) (v Violation, ok bool) {
	value := draft[def.ID]

	if value == "" {
		if def.Required {
			return def.violation(RuleRequired, fmt.Sprintf("%s is required", def.DisplayLabel())), false
		}
		return Violation{}, true
	}

	if def.MinLength > 0 && utf8.RuneCountInString(value) < def.MinLength {
		return def.violation(RuleMinLength,
			fmt.Sprintf("%s must be at least %d characters", def.DisplayLabel(), def.MinLength)), false
	}

	if def.Pattern != "" {
		re, err := CompilePattern(def.Pattern)
		if err != nil || !re.MatchString(value) {
			return def.violation(RulePattern, fmt.Sprintf("Invalid %s", def.lowerLabel())), false
		}
	}

	if def.EqualsField != "" && value != draft[def.EqualsField] {
		return def.violation(RuleEquals, fmt.Sprintf("%s does not match", def.DisplayLabel())), false
	}

	return Violation{}, true
}

func (f Field) violation(rule Rule, fallback string) Violation {
	return Violation{
		Field:   f.ID,
		Rule:    rule,
		Message: f.message(rule, fallback),
	}
}

// ValidateFields validates only the given fields of the form.
// Ids the form does not define are ignored.
func ValidateFields(form Form, draft map[string]string, ids ...string) Result {
	result := make(Result)
	for _, id := range ids {
		def, ok := form.Field(id)
		if !ok {
			continue
		}
		if v, valid := ValidateField(def, draft); !valid {
			result[id] = v
		}
	}
	return result
}
