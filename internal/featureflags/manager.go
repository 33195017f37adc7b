// Package featureflags evaluates FEATURE_FLAGS rollout rules.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// OfferedSkillReview makes newly offered skills start as pending until an admin approves them.
const OfferedSkillReview = "offered_skill_review"

// rule is a parsed flag value: fully on, fully off, or a percentage rollout.
type rule struct {
	raw     string
	percent int
}

// Manager evaluates feature flags defined as a comma-separated key=value list,
// e.g. "offered_skill_review=on,new_search=25%".
type Manager struct {
	rules map[string]rule
}

func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			continue
		}
		rules[key] = r
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, percent: 100}, true
	case "off", "false", "0":
		return rule{raw: value, percent: 0}, true
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return rule{}, false
		}
		return rule{raw: value, percent: min(max(pct, 0), 100)}, true
	}
	return rule{}, false
}

// Enabled reports whether name is on for userID. Unknown flags are off.
// Partial rollouts are deterministic per user and never apply to userID 0.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent <= 0:
		return false
	case r.percent >= 100:
		return true
	case userID == 0:
		return false
	default:
		return rolloutBucket(name, userID) < r.percent
	}
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Names lists configured flags in sorted order.
func (m *Manager) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.rules))
	for k := range m.rules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	names := m.Names()
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
