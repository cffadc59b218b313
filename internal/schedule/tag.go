package schedule

import "strings"

// TagKind discriminates the audience a window is published to.
type TagKind int

const (
	TagEveryone TagKind = iota
	TagYear
	TagDepartment
	TagGroup
)

// Tag is the structured form of the flat audience string stored in
// assigned_roles ("Year:II", "Department:CSE", "Group:<id>", or empty for
// everyone). The wire/storage encoding stays the flat string; this type only
// makes the matching rule explicit.
type Tag struct {
	Kind  TagKind
	Value string
}

// ParseTag decodes an assigned_roles string. Unknown prefixes are kept as an
// everyone tag with the raw value preserved, matching the original's leniency
// where an unrecognized tag never filtered anyone out.
func ParseTag(s string) Tag {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tag{Kind: TagEveryone}
	}
	switch {
	case strings.HasPrefix(s, "Year:"):
		return Tag{Kind: TagYear, Value: strings.TrimPrefix(s, "Year:")}
	case strings.HasPrefix(s, "Department:"):
		return Tag{Kind: TagDepartment, Value: strings.TrimPrefix(s, "Department:")}
	case strings.HasPrefix(s, "Group:"):
		return Tag{Kind: TagGroup, Value: strings.TrimPrefix(s, "Group:")}
	}
	return Tag{Kind: TagEveryone, Value: s}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagYear:
		return "Year:" + t.Value
	case TagDepartment:
		return "Department:" + t.Value
	case TagGroup:
		return "Group:" + t.Value
	}
	return ""
}

// Audience holds the student attributes a tag is matched against. GroupID is
// empty when the student belongs to no group.
type Audience struct {
	Year       string
	Department string
	GroupID    string
}

// Matches reports whether a window tagged t is visible to the audience.
// Values compare by exact string equality, so tags and student attributes
// must be formatted identically (e.g. "Year:II" vs Year "II").
func (t Tag) Matches(a Audience) bool {
	switch t.Kind {
	case TagEveryone:
		return true
	case TagYear:
		return t.Value == a.Year
	case TagDepartment:
		return t.Value == a.Department
	case TagGroup:
		return t.Value != "" && t.Value == a.GroupID
	}
	return false
}
