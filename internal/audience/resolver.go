package audience

import (
	"context"
	"errors"
	"time"

	"github.com/campuskit/surveyhub/internal/roster"
	"github.com/campuskit/surveyhub/internal/schedule"
)

// ErrStudentNotFound means the student appears in neither the group
// membership table nor the student details table.
var ErrStudentNotFound = errors.New("student not found")

// ProfileSource supplies the student attributes the resolver matches windows
// against. Satisfied by *roster.Store.
type ProfileSource interface {
	Membership(ctx context.Context, email string) (roster.Membership, error)
	Detail(ctx context.Context, email string) (roster.StudentDetail, error)
}

// WindowSource supplies publication windows. Satisfied by *schedule.Store.
type WindowSource interface {
	ListMatching(ctx context.Context, a schedule.Audience) ([]schedule.Window, error)
	ListAll(ctx context.Context) ([]schedule.Window, error)
}

// Profile is a student's resolved audience attributes. GroupName is set only
// when the student belongs to a group.
type Profile struct {
	schedule.Audience
	GroupName string
}

// AssignedSurvey is one window as delivered to a student: the stored window
// annotated with combined ISO-8601 instants, the time state, a defaulted
// response limit and, for grouped students, the group's display name.
type AssignedSurvey struct {
	schedule.Window
	Start     string         `json:"start"`
	End       string         `json:"end"`
	State     schedule.State `json:"state"`
	GroupName string         `json:"GroupName,omitempty"`
}

type Resolver struct {
	profiles ProfileSource
	windows  WindowSource
	now      func() time.Time
}

func NewResolver(profiles ProfileSource, windows WindowSource) *Resolver {
	return &Resolver{profiles: profiles, windows: windows, now: time.Now}
}

// WithClock fixes the resolver's notion of "now". Tests use this to pin
// classification boundaries.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Profile looks the student up in the group membership table first and falls
// back to student details for year/department only; a student present in
// neither source resolves to ErrStudentNotFound.
func (r *Resolver) Profile(ctx context.Context, email string) (Profile, error) {
	m, err := r.profiles.Membership(ctx, email)
	if err == nil {
		return Profile{
			Audience: schedule.Audience{
				Year:       m.Year,
				Department: m.Department,
				GroupID:    m.GroupID,
			},
			GroupName: m.GroupName,
		}, nil
	}
	if !errors.Is(err, roster.ErrNotFound) {
		return Profile{}, err
	}
	d, err := r.profiles.Detail(ctx, email)
	if errors.Is(err, roster.ErrNotFound) {
		return Profile{}, ErrStudentNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Audience: schedule.Audience{Year: d.Year, Department: d.Department},
	}, nil
}

// Resolve returns every window visible to the student regardless of time
// state, annotated per AssignedSurvey. Windows whose stored date or time
// values fail to parse are dropped silently rather than failing the request.
func (r *Resolver) Resolve(ctx context.Context, email string) ([]AssignedSurvey, error) {
	return r.resolve(ctx, email, "")
}

// ResolveState is Resolve narrowed to a single time state.
func (r *Resolver) ResolveState(ctx context.Context, email string, state schedule.State) ([]AssignedSurvey, error) {
	return r.resolve(ctx, email, state)
}

func (r *Resolver) resolve(ctx context.Context, email string, only schedule.State) ([]AssignedSurvey, error) {
	p, err := r.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	wins, err := r.windows.ListMatching(ctx, p.Audience)
	if err != nil {
		return nil, err
	}

	now := r.now()
	out := []AssignedSurvey{}
	for _, w := range wins {
		state, err := schedule.Classify(w, now)
		if err != nil {
			continue // malformed stored values: drop the window, keep the rest
		}
		if only != "" && state != only {
			continue
		}
		out = append(out, r.annotate(w, p, state, now.Location()))
	}
	return out, nil
}

func (r *Resolver) annotate(w schedule.Window, p Profile, state schedule.State, loc *time.Location) AssignedSurvey {
	if w.ResponseLimit <= 0 {
		w.ResponseLimit = 1
	}
	start, _ := w.StartsAt(loc)
	end, _ := w.EndsAt(loc)
	return AssignedSurvey{
		Window:    w,
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
		State:     state,
		GroupName: p.GroupName,
	}
}
