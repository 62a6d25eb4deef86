package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfest-dev/hackathon-api/internal/types"
)

func TestValidateSectionScopesRules(t *testing.T) {
	engine := New()

	sub := types.Submission{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		// phone missing, education missing
	}

	tests := []struct {
		name    string
		section Section
		want    []string
	}{
		{
			name:    "personal reports only its own fields",
			section: SectionPersonal,
			want:    []string{"Phone number is required"},
		},
		{
			name:    "education reports only its own fields",
			section: SectionEducation,
			want: []string{
				"College name is required",
				"Degree is required",
				"Year of study is required",
				"CGPA is required",
			},
		},
		{
			name:    "skills reports the tech stack",
			section: SectionSkills,
			want:    []string{"Please select at least one tech stack"},
		},
		{
			name:    "project is clean when empty",
			section: SectionProject,
			want:    nil,
		},
		{
			name:    "social is clean when no urls supplied",
			section: SectionSocial,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ValidateSection(sub, tt.section))
		})
	}
}

func TestWizardProgression(t *testing.T) {
	w := NewWizard(New())
	w.SetDraft(validSubmission())

	assert.Equal(t, SectionPersonal, w.Section())

	for _, want := range []Section{
		SectionEducation, SectionSkills, SectionProject, SectionSocial, SectionReview,
	} {
		require.Empty(t, w.Next())
		assert.Equal(t, want, w.Section())
	}

	p, msgs := w.Submit()
	require.Empty(t, msgs)
	assert.True(t, w.Submitted())
	assert.Equal(t, "asha.rao@example.com", p.Email)
}

func TestWizardBlocksInvalidSection(t *testing.T) {
	w := NewWizard(New())

	sub := validSubmission()
	sub.PhoneNumber = "123"
	w.SetDraft(sub)

	msgs := w.Next()
	assert.Equal(t, []string{"Phone number must be 10 digits"}, msgs)
	assert.Equal(t, SectionPersonal, w.Section())

	// Fixing the field unblocks the transition.
	sub.PhoneNumber = "9876543210"
	w.SetDraft(sub)
	assert.Empty(t, w.Next())
	assert.Equal(t, SectionEducation, w.Section())
}

func TestWizardBack(t *testing.T) {
	w := NewWizard(New())
	w.SetDraft(validSubmission())

	require.Empty(t, w.Next())
	w.Back()
	assert.Equal(t, SectionPersonal, w.Section())

	// Back at the first section is a no-op.
	w.Back()
	assert.Equal(t, SectionPersonal, w.Section())
}

func TestWizardSocialGate(t *testing.T) {
	w := NewWizard(New())

	sub := validSubmission()
	sub.GitHub = "https://github.com/asha-rao"
	w.SetDraft(sub)

	// Walk to the social section.
	for i := 0; i < 4; i++ {
		require.Empty(t, w.Next())
	}
	assert.Equal(t, SectionSocial, w.Section())

	assert.Equal(t, []string{"GitHub profile must be verified"}, w.Next())
	assert.Equal(t, SectionSocial, w.Section())

	w.MarkVerified(types.ProfileGitHub)
	assert.Empty(t, w.Next())
	assert.Equal(t, SectionReview, w.Section())
}

func TestWizardEditResetsVerification(t *testing.T) {
	w := NewWizard(New())

	sub := validSubmission()
	sub.GitHub = "https://github.com/asha-rao"
	w.SetDraft(sub)
	w.MarkVerified(types.ProfileGitHub)
	require.True(t, w.Verified(types.ProfileGitHub))

	// Changing the URL invalidates the prior verification; submission
	// is blocked until the new value passes a check.
	sub.GitHub = "https://github.com/someone-else"
	w.SetDraft(sub)
	assert.False(t, w.Verified(types.ProfileGitHub))

	_, msgs := w.Submit()
	assert.Contains(t, msgs, "GitHub profile must be verified")
	assert.False(t, w.Submitted())

	// Re-submitting the unchanged draft keeps the flag down; only an
	// explicit re-check clears the gate.
	w.SetDraft(sub)
	assert.False(t, w.Verified(types.ProfileGitHub))
	w.MarkVerified(types.ProfileGitHub)

	p, msgs := w.Submit()
	require.Empty(t, msgs)
	assert.Equal(t, "https://github.com/someone-else", p.GitHub)
}

func TestWizardLinkedInGate(t *testing.T) {
	w := NewWizard(New())

	sub := validSubmission()
	sub.LinkedIn = "https://www.linkedin.com/in/asha-rao"
	w.SetDraft(sub)

	_, msgs := w.Submit()
	assert.Equal(t, []string{"LinkedIn profile must be verified"}, msgs)

	w.MarkVerified(types.ProfileLinkedIn)
	_, msgs = w.Submit()
	assert.Empty(t, msgs)
}
