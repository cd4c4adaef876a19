// Package tasks parses workload distribution text into ordered task assignments.
package tasks

import (
	"strings"
)

// Entry is a single assignment of a task to a team member.
type Entry struct {
	// Member is the trimmed, non-empty name before the first colon.
	Member string

	// Description is the trimmed text after the first colon. It may be empty
	// and may itself contain colons.
	Description string
}

// List is an ordered mapping from member name to task description.
//
// Members keep the position of their first appearance; a repeated member
// replaces the earlier description (last write wins). A List is never
// modified after Parse returns it.
type List struct {
	order []string
	tasks map[string]string
}

// Parse turns line-oriented "Member: Task" text into a List.
//
// Lines without a colon and lines whose member part is blank are dropped.
// Parse never fails: free-form model output rarely matches the line format
// exactly, and an empty List is a valid result.
func Parse(text string) *List {
	l := &List{tasks: make(map[string]string)}

	for _, line := range strings.Split(text, "\n") {
		member, description, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		l.set(member, strings.TrimSpace(description))
	}

	return l
}

func (l *List) set(member, description string) {
	if _, exists := l.tasks[member]; !exists {
		l.order = append(l.order, member)
	}
	l.tasks[member] = description
}

// Len returns the number of distinct members.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Empty reports whether the list holds no entries.
func (l *List) Empty() bool {
	return l.Len() == 0
}

// Members returns member names in first-seen order.
func (l *List) Members() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Get returns the description assigned to member.
func (l *List) Get(member string) (string, bool) {
	if l == nil {
		return "", false
	}
	d, ok := l.tasks[member]
	return d, ok
}

// Entries returns a copy of the assignments in order.
func (l *List) Entries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, 0, len(l.order))
	for _, m := range l.order {
		out = append(out, Entry{Member: m, Description: l.tasks[m]})
	}
	return out
}

// String renders the list back into "Member: Task" lines.
func (l *List) String() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		sb.WriteString(e.Member)
		sb.WriteString(": ")
		sb.WriteString(e.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}
