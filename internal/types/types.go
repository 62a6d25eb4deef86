// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// handlers, storage, validation, and stats can all import types
// without depending on each other.
package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Degrees enumerates the accepted degree values.
var Degrees = []string{"B.Tech", "M.Tech", "BCA", "MCA", "B.Sc", "M.Sc", "Other"}

// Years enumerates the accepted year-of-study values.
var Years = []string{"1st", "2nd", "3rd", "4th", "5th"}

// Verification status values. A record starts as pending and only the
// explicit verify operation moves it; plain field updates never do.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// Profile kinds accepted by the verification endpoints.
const (
	ProfileGitHub   = "github"
	ProfileLinkedIn = "linkedin"
)

// Participant is a stored registrant record. The id is assigned by the
// store; email is unique across all records.
type Participant struct {
	ID                 int64     `json:"id"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	CollegeName        string    `json:"college_name"`
	Degree             string    `json:"degree"`
	YearOfStudy        string    `json:"year_of_study"`
	CGPA               float64   `json:"cgpa"`
	TechStack          []string  `json:"tech_stack"`
	OtherSkills        string    `json:"other_skills,omitempty"`
	ProjectIdea        string    `json:"project_idea,omitempty"`
	GitHub             string    `json:"github,omitempty"`
	LinkedIn           string    `json:"linkedin,omitempty"`
	RegistrationDate   time.Time `json:"registration_date"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Submission is the raw intake payload. Clients are loosely typed:
// cgpa may arrive as a number or a numeric string, tech_stack as a
// JSON array or a serialized-string encoding of one. The flexible
// field types below absorb both forms so the validation layer works
// on one shape.
type Submission struct {
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CollegeName string    `json:"college_name"`
	Degree      string    `json:"degree"`
	YearOfStudy string    `json:"year_of_study"`
	CGPA        FlexFloat `json:"cgpa"`
	TechStack   TechStack `json:"tech_stack"`
	OtherSkills string    `json:"other_skills"`
	ProjectIdea string    `json:"project_idea"`
	GitHub      string    `json:"github"`
	LinkedIn    string    `json:"linkedin"`
}

// SubmissionFromParticipant builds a fully-populated Submission from a
// stored record. Decoding a partial patch on top of it overwrites only
// the fields present in the patch, which gives PUT its merge-then-
// revalidate semantics.
func SubmissionFromParticipant(p Participant) Submission {
	return Submission{
		FullName:    p.FullName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		CollegeName: p.CollegeName,
		Degree:      p.Degree,
		YearOfStudy: p.YearOfStudy,
		CGPA:        FlexFloat{Present: true, Valid: true, Value: p.CGPA},
		TechStack:   TechStack{Present: true, Tags: p.TechStack},
		OtherSkills: p.OtherSkills,
		ProjectIdea: p.ProjectIdea,
		GitHub:      p.GitHub,
		LinkedIn:    p.LinkedIn,
	}
}

// FlexFloat is a float64 that decodes from a JSON number or a numeric
// string. Present records whether a non-empty value arrived at all,
// Valid whether the token parsed as a number; validation needs the
// distinction to report "required" vs "out of range".
type FlexFloat struct {
	Value   float64
	Present bool
	Valid   bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = FlexFloat{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
	}
	*f = FlexFloat{Present: s != ""}
	if !f.Present {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Non-numeric input is a validation failure, not a decode error.
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// TechStack decodes from either a JSON array of strings or a string
// containing a serialized JSON array (the intake form submits the
// latter). Malformed marks a serialized form that failed to parse —
// a distinct validation error from "empty or not a list".
type TechStack struct {
	Tags      []string
	Present   bool
	Malformed bool
}

func (t *TechStack) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		*t = TechStack{}
		return nil
	}
	*t = TechStack{Present: true}

	var tags []string
	if err := json.Unmarshal(b, &tags); err == nil {
		t.Tags = tags
		return nil
	}

	var serialized string
	if err := json.Unmarshal(b, &serialized); err != nil {
		// Neither a list nor a string; leave Tags empty so the
		// "select at least one" rule reports it.
		return nil
	}
	if err := json.Unmarshal([]byte(serialized), &tags); err != nil {
		var probe any
		if json.Unmarshal([]byte(serialized), &probe) != nil {
			t.Malformed = true
		}
		return nil
	}
	t.Tags = tags
	return nil
}

func (t TechStack) MarshalJSON() ([]byte, error) {
	if t.Tags == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Tags)
}
