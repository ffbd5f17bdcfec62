package models

import (
	"strconv"
	"strings"
)

// TopicSet is the closed set of topic labels for a deployment. The label
// set is configuration, not a compile-time constant: it has drifted
// between deployments, so handlers normalize against whatever set the
// running instance was configured with.
type TopicSet struct {
	labels []string
	index  map[string]string
}

// NewTopicSet builds a set from the configured labels. Blank entries are
// dropped; labels are matched case-insensitively but stored as given.
func NewTopicSet(labels []string) TopicSet {
	s := TopicSet{index: make(map[string]string, len(labels))}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToUpper(l)
		if _, dup := s.index[key]; dup {
			continue
		}
		s.index[key] = l
		s.labels = append(s.labels, l)
	}
	return s
}

// Labels returns the configured labels in order.
func (s TopicSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Normalize maps a raw topic string to its canonical label. Unrecognized
// values normalize to nil rather than erroring: an invalid topic stores
// as absent. Positional aliases ("1" is the first label) are accepted
// for compatibility with older admin clients.
func (s TopicSet) Normalize(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 1 && n <= len(s.labels) {
			l := s.labels[n-1]
			return &l
		}
		return nil
	}
	if l, ok := s.index[strings.ToUpper(raw)]; ok {
		return &l
	}
	return nil
}

// NormalizeValue handles the loosely-typed topic values older clients
// send in JSON bodies: strings, numbers, or null.
func (s TopicSet) NormalizeValue(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return s.Normalize(t)
	case float64:
		return s.Normalize(strconv.Itoa(int(t)))
	case int:
		return s.Normalize(strconv.Itoa(t))
	default:
		return nil
	}
}
