// Package team handles the team roster: who is on the project, what they
// are good at, and which task each one was assigned.
package team

import (
	"fmt"
	"strings"

	"github.com/steveyegge/workup/internal/tasks"
)

// Member is a team member and their expertise.
type Member struct {
	Name      string
	Expertise string
}

// RosterSeparator separates member blocks in an expertise file.
const RosterSeparator = "---"

// ParseRoster reads an expertise document made of blocks separated by
// "---". The first line of a block is the member name; the remaining lines
// are joined into the expertise. Blocks with fewer than two lines are
// skipped.
func ParseRoster(text string) []Member {
	var members []Member
	for _, block := range strings.Split(text, RosterSeparator) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		name := strings.TrimSpace(lines[0])
		rest := make([]string, 0, len(lines)-1)
		for _, l := range lines[1:] {
			if l = strings.TrimSpace(l); l != "" {
				rest = append(rest, l)
			}
		}
		expertise := strings.Join(rest, " ")
		if name == "" || expertise == "" {
			continue
		}
		members = append(members, Member{Name: name, Expertise: expertise})
	}
	return members
}

// ParseMembers reads "Name: expertise" values, as given on the command
// line. Entries without expertise are dropped.
func ParseMembers(values []string) []Member {
	l := tasks.Parse(strings.Join(values, "\n"))
	members := make([]Member, 0, l.Len())
	for _, e := range l.Entries() {
		if e.Description == "" {
			continue
		}
		members = append(members, Member{Name: e.Member, Expertise: e.Description})
	}
	return members
}

// ExpertiseList renders members as "Name: expertise" lines.
func ExpertiseList(members []Member) string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = m.Name + ": " + m.Expertise
	}
	return strings.Join(lines, "\n")
}

// Missing-information labels reported by Validate.
const (
	MissingDescription = "Project description"
	MissingMembers     = "Team members' names and expertise"
)

// MissingInfoError lists the inputs a setup run is missing.
type MissingInfoError struct {
	Fields []string
}

func (e *MissingInfoError) Error() string {
	return fmt.Sprintf("please provide the following missing information: %s", strings.Join(e.Fields, ", "))
}

// Validate checks that a setup run has a description and at least one
// member. It returns a *MissingInfoError naming everything that is absent.
func Validate(description string, members []Member) error {
	var missing []string
	if strings.TrimSpace(description) == "" {
		missing = append(missing, MissingDescription)
	}
	if len(members) == 0 {
		missing = append(missing, MissingMembers)
	}
	if len(missing) > 0 {
		return &MissingInfoError{Fields: missing}
	}
	return nil
}
