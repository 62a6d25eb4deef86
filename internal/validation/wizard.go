package validation

import "github.com/hackfest-dev/hackathon-api/internal/types"

// The registration form advances section by section, each advance
// gated by that section's rules. Wizard models the progression as an
// explicit state machine: states are sections, transitions are
// Next/Back/Submit, terminal state is submitted.
//
// The social section carries extra state the rule set alone cannot
// express: a supplied profile URL must have passed a live check before
// the form may advance, and editing a checked URL resets that state.

// Section identifies one step of the registration form.
type Section int

const (
	SectionPersonal Section = iota
	SectionEducation
	SectionSkills
	SectionProject
	SectionSocial
	SectionReview

	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionPersonal:
		return "personal"
	case SectionEducation:
		return "education"
	case SectionSkills:
		return "skills"
	case SectionProject:
		return "project"
	case SectionSocial:
		return "social"
	case SectionReview:
		return "review"
	}
	return "unknown"
}

// sectionFields maps each section to the fields its gate checks.
var sectionFields = map[Section][]string{
	SectionPersonal:  {"FullName", "Email", "PhoneNumber"},
	SectionEducation: {"CollegeName", "Degree", "YearOfStudy", "CGPA"},
	SectionSkills:    {"TechStack"},
	SectionProject:   {"ProjectIdea"},
	SectionSocial:    {"GitHub", "LinkedIn"},
}

// ValidateSection runs only the rules belonging to one section and
// returns their messages. The review section re-checks everything.
func (e *Engine) ValidateSection(sub types.Submission, s Section) []string {
	sub = normalize(sub)
	byField := e.fieldErrors(sub)
	if s == SectionReview {
		return orderedMessages(byField)
	}

	var msgs []string
	for _, f := range sectionFields[s] {
		if m, ok := byField[f]; ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// Wizard is the form progression state machine.
type Wizard struct {
	engine *Engine
	draft  types.Submission

	section   Section
	submitted bool

	githubVerified   bool
	linkedinVerified bool
}

func NewWizard(engine *Engine) *Wizard {
	return &Wizard{engine: engine}
}

func (w *Wizard) Section() Section        { return w.section }
func (w *Wizard) Submitted() bool         { return w.submitted }
func (w *Wizard) Draft() types.Submission { return w.draft }

// SetDraft replaces the working submission. Changing a profile URL
// invalidates its prior verification: the new value has never been
// checked, whatever the old one was.
func (w *Wizard) SetDraft(sub types.Submission) {
	if sub.GitHub != w.draft.GitHub {
		w.githubVerified = false
	}
	if sub.LinkedIn != w.draft.LinkedIn {
		w.linkedinVerified = false
	}
	w.draft = sub
}

// MarkVerified records a passed live check for the current URL value.
func (w *Wizard) MarkVerified(kind string) {
	switch kind {
	case types.ProfileGitHub:
		w.githubVerified = true
	case types.ProfileLinkedIn:
		w.linkedinVerified = true
	}
}

func (w *Wizard) Verified(kind string) bool {
	switch kind {
	case types.ProfileGitHub:
		return w.githubVerified
	case types.ProfileLinkedIn:
		return w.linkedinVerified
	}
	return false
}

// Next validates the current section and advances on success. The
// returned messages are empty when the transition happened.
func (w *Wizard) Next() []string {
	if w.section >= SectionReview {
		return nil
	}
	msgs := w.engine.ValidateSection(w.draft, w.section)
	if w.section == SectionSocial {
		msgs = append(msgs, w.socialGate()...)
	}
	if len(msgs) > 0 {
		return msgs
	}
	w.section++
	return nil
}

// Back moves to the previous section without validating; users may
// always revisit earlier input.
func (w *Wizard) Back() {
	if w.section > SectionPersonal {
		w.section--
	}
}

// Submit validates every section plus the verification gates and, on
// success, produces the normalized record and enters the terminal
// state.
func (w *Wizard) Submit() (types.Participant, []string) {
	p, msgs := w.engine.Validate(w.draft)
	msgs = append(msgs, w.socialGate()...)
	if len(msgs) > 0 {
		return types.Participant{}, msgs
	}
	w.submitted = true
	return p, nil
}

// socialGate enforces that supplied profiles passed their live check.
func (w *Wizard) socialGate() []string {
	var msgs []string
	if w.draft.GitHub != "" && !w.githubVerified {
		msgs = append(msgs, "GitHub profile must be verified")
	}
	if w.draft.LinkedIn != "" && !w.linkedinVerified {
		msgs = append(msgs, "LinkedIn profile must be verified")
	}
	return msgs
}
