package audience

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/campuskit/surveyhub/internal/schedule"
)

// MenteeSource lists the students assigned to a mentor. Satisfied by
// *roster.Store.
type MenteeSource interface {
	Mentees(ctx context.Context, mentorEmail string) ([]string, error)
}

// Aggregator computes the union of live windows relevant to any of a
// mentor's mentees.
type Aggregator struct {
	resolver *Resolver
	mentees  MenteeSource
}

func NewAggregator(resolver *Resolver, mentees MenteeSource) *Aggregator {
	return &Aggregator{resolver: resolver, mentees: mentees}
}

// MenteeLiveSurveys gathers each mentee's audience attributes, fetches every
// currently live window and keeps those whose targets intersect any mentee.
// Mentees missing from both roster sources are skipped rather than failing
// the mentor's request.
func (g *Aggregator) MenteeLiveSurveys(ctx context.Context, mentorEmail string) ([]schedule.Window, error) {
	emails, err := g.mentees.Mentees(ctx, mentorEmail)
	if err != nil {
		return nil, err
	}
	audiences := make([]schedule.Audience, 0, len(emails))
	for _, e := range emails {
		p, err := g.resolver.Profile(ctx, e)
		if errors.Is(err, ErrStudentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		audiences = append(audiences, p.Audience)
	}

	wins, err := g.resolver.windows.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := g.resolver.now()
	out := []schedule.Window{}
	for _, w := range wins {
		state, err := schedule.Classify(w, now)
		if err != nil || state != schedule.StateLive {
			continue
		}
		if windowAppliesToAny(w, audiences) {
			out = append(out, w)
		}
	}
	return out, nil
}

// windowAppliesToAny implements the loose target matching the mentor view
// uses: the target field may hold a JSON array of tag strings or one plain
// tag. An entirely empty field applies to everyone.
func windowAppliesToAny(w schedule.Window, audiences []schedule.Audience) bool {
	tags, empty := parseTargets(w.AssignedRoles)
	if empty {
		return true
	}
	for _, t := range tags {
		if t.Kind == schedule.TagEveryone {
			return true
		}
		for _, a := range audiences {
			if t.Matches(a) {
				return true
			}
		}
	}
	return false
}

// parseTargets decodes a multi-valued target field. A value starting with
// '[' is treated as a JSON array of tag strings; a failed parse yields the
// empty set (matching nothing), preserving the original's leniency.
func parseTargets(raw string) (tags []schedule.Tag, empty bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if strings.HasPrefix(raw, "[") {
		var vals []string
		if err := json.Unmarshal([]byte(raw), &vals); err != nil {
			return nil, false
		}
		for _, v := range vals {
			if strings.TrimSpace(v) == "" {
				continue
			}
			tags = append(tags, schedule.ParseTag(v))
		}
		return tags, len(tags) == 0 && len(vals) == 0
	}
	return []schedule.Tag{schedule.ParseTag(raw)}, false
}
