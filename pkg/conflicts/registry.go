package conflicts

import (
	"encoding/json"
	"os"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/pkg/errors"
)

// Rule declares that two content ids describe the same real-world fact and
// must never both appear in one resume, even though they live in different
// categories and share no base id. Rules are matched on the exact ids given
// here: a rule naming a specific variant does not fire for sibling variants.
// The reason is diagnostic text only.
type Rule struct {
	IDA    string `json:"id_a"`
	IDB    string `json:"id_b"`
	Reason string `json:"reason"`
}

// Registry is an immutable bidirectional index over a set of conflict rules.
// It is constructed once and injected wherever conflict lookups are needed;
// nothing reads it from ambient global state.
type Registry struct {
	adjacency map[string][]string
	reasons   map[string]map[string]string
	rules     []Rule
}

// NewRegistry builds a registry from a static rule table. Both directions of
// every pair are indexed so either id can be queried.
func NewRegistry(rules []Rule) (registry *Registry) {
	registry = &Registry{
		adjacency: make(map[string][]string),
		reasons:   make(map[string]map[string]string),
		rules:     make([]Rule, len(rules)),
	}
	copy(registry.rules, rules)

	for _, rule := range rules {
		registry.adjacency[rule.IDA] = append(registry.adjacency[rule.IDA], rule.IDB)
		registry.adjacency[rule.IDB] = append(registry.adjacency[rule.IDB], rule.IDA)
		registry.addReason(rule.IDA, rule.IDB, rule.Reason)
		registry.addReason(rule.IDB, rule.IDA, rule.Reason)
	}

	return registry
}

func (r *Registry) addReason(a, b, reason string) {
	if r.reasons[a] == nil {
		r.reasons[a] = make(map[string]string)
	}
	r.reasons[a][b] = reason
}

// ConflictsOf returns the set of base ids that become unavailable once the
// given id's base identity is consumed. The id's own base id is always
// included. Conflict partners come from exact-id rule matches; callers are
// responsible for resolving to base ids before consulting usage state.
func (r *Registry) ConflictsOf(id string) (blocked map[string]bool) {
	blocked = map[string]bool{
		content.BaseID(id): true,
	}
	for _, partner := range r.adjacency[id] {
		blocked[content.BaseID(partner)] = true
	}
	return blocked
}

// Conflicting reports whether a rule links the two ids, and the rule's reason
// if so.
func (r *Registry) Conflicting(a, b string) (reason string, found bool) {
	partners, ok := r.reasons[a]
	if !ok {
		found = false
		return reason, found
	}
	reason, found = partners[b]
	return reason, found
}

// Rules returns a copy of the rule table the registry was built from.
func (r *Registry) Rules() (rules []Rule) {
	rules = make([]Rule, len(r.rules))
	copy(rules, r.rules)
	return rules
}

// LoadRules reads a conflict rule table from a JSON file. The file contains a
// list of {id_a, id_b, reason} triples.
func LoadRules(path string) (rules []Rule, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read conflict table: %s", path)
		return rules, err
	}

	err = json.Unmarshal(data, &rules)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse conflict table: %s", path)
		return rules, err
	}

	// Validate entries
	for i, rule := range rules {
		if rule.IDA == "" || rule.IDB == "" {
			err = errors.Errorf("conflict table entry %d missing an id", i)
			return rules, err
		}
		if rule.IDA == rule.IDB {
			err = errors.Errorf("conflict table entry %d pairs %s with itself", i, rule.IDA)
			return rules, err
		}
	}

	return rules, err
}
