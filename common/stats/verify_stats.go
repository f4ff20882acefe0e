package stats

import (
	"fmt"
	"sort"
	"strings"
	"testing"
)

// RuleChecker compares a rendered stat (got) against an expected value.
type RuleChecker struct {
	name    string
	checker func(got, expected interface{}) bool
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

var Int64EqTest = RuleChecker{name: "Int64EqTest", checker: func(got, expected interface{}) bool {
	g, ok1 := toInt64(got)
	e, ok2 := toInt64(expected)
	return ok1 && ok2 && g == e
}}

var Int64GTETest = RuleChecker{name: "Int64GTETest", checker: func(got, expected interface{}) bool {
	g, ok1 := toInt64(got)
	e, ok2 := toInt64(expected)
	return ok1 && ok2 && g >= e
}}

var FloatGTTest = RuleChecker{name: "FloatGTTest", checker: func(got, expected interface{}) bool {
	g, ok1 := toFloat64(got)
	e, ok2 := toFloat64(expected)
	return ok1 && ok2 && g > e
}}

var DoesNotExistTest = RuleChecker{name: "DoesNotExistTest", checker: func(got, _ interface{}) bool {
	return got == nil
}}

// Rule pairs a checker with the expected value.
type Rule struct {
	Checker RuleChecker
	Value   interface{}
}

// StatsOk checks every rule against the rendered registry, which must come from
// NewFinagleStatsRegistry. Returns false and dumps the registry when a rule fails.
func StatsOk(tag string, statsRegistry StatsRegistry, t testing.TB, contains map[string]Rule) bool {
	t.Helper()
	reg, ok := statsRegistry.(*finagleStatsRegistry)
	if !ok {
		t.Errorf("%s: stats registry %T is not a finagle registry", tag, statsRegistry)
		return false
	}
	rendered := reg.MarshalAll()

	keys := make([]string, 0, len(contains))
	for key := range contains {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var failures []string
	for _, key := range keys {
		rule := contains[key]
		got := rendered[key]
		if rule.Checker.checker(got, rule.Value) {
			continue
		}
		if rule.Checker.name == DoesNotExistTest.name {
			failures = append(failures, fmt.Sprintf("%s: found stat entry when there should not be one", key))
		} else {
			failures = append(failures, fmt.Sprintf("%s: got %v, expected to pass %s with %v", key, got, rule.Checker.name, rule.Value))
		}
	}
	if len(failures) > 0 {
		pretty, _ := reg.MarshalJSONPretty()
		t.Errorf("%s: stats registry error:\n%s\n%s", tag, strings.Join(failures, "\n"), pretty)
		return false
	}
	return true
}
