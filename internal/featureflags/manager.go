package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type flagMode int

const (
	modeOff flagMode = iota
	modeOn
	modeRollout
)

type rule struct {
	mode flagMode
	pct  int
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "draft_autosave=on,comments=25%,legacy_editor=off"
type Manager struct {
	rules map[string]rule
	raw   map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Supported flag values:
// - on/true/1
// - off/false/0
// - N% (deterministic per-user rollout, e.g. 25%)
func NewManager(rawCfg string) *Manager {
	rules := make(map[string]rule)
	raw := make(map[string]string)

	for _, pair := range strings.Split(rawCfg, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		rules[key] = parseRule(value)
		raw[key] = value
	}

	return &Manager{rules: rules, raw: raw}
}

func parseRule(value string) rule {
	switch value {
	case "on", "true", "1":
		return rule{mode: modeOn}
	case "off", "false", "0":
		return rule{mode: modeOff}
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct <= 0 {
			return rule{mode: modeOff}
		}
		if pct >= 100 {
			return rule{mode: modeOn}
		}
		return rule{mode: modeRollout, pct: pct}
	}

	return rule{mode: modeOff}
}

// Enabled returns whether a flag is enabled for a given user.
// Unknown flags are off. Rollout flags require a non-zero userID so
// anonymous traffic never lands in a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch r.mode {
	case modeOn:
		return true
	case modeRollout:
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < r.pct
	default:
		return false
	}
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.raw))
	for k, v := range m.raw {
		out[k] = v
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
