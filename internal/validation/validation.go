// Package validation implements the registration rule set. Validate
// evaluates every rule (it never stops at the first failure) and
// returns the full ordered list of human-readable messages, which the
// HTTP layer surfaces verbatim.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hackfest-dev/hackathon-api/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	githubPattern   = regexp.MustCompile(`^https://github\.com/[\w-]+/?$`)
	linkedinPattern = regexp.MustCompile(`^https://.*linkedin\.com/in/[\w-]+/?$`)
)

// Engine validates intake submissions. Construct once with New and
// share; the underlying validator is safe for concurrent use.
type Engine struct {
	v *validator.Validate
}

func New() *Engine {
	v := validator.New()

	// RegisterValidation only errors on an empty tag name.
	_ = v.RegisterValidation("email_loose", patternRule(emailPattern))
	_ = v.RegisterValidation("phone10", patternRule(phonePattern))
	_ = v.RegisterValidation("github_profile", patternRule(githubPattern))
	_ = v.RegisterValidation("linkedin_profile", patternRule(linkedinPattern))

	return &Engine{v: v}
}

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// record is the strongly-typed shape the rules run against. One
// message per field: validator stops at the first failing tag for a
// field but still reports every failing field.
type record struct {
	FullName    string   `validate:"required"`
	Email       string   `validate:"required,email_loose"`
	PhoneNumber string   `validate:"required,phone10"`
	CollegeName string   `validate:"required"`
	Degree      string   `validate:"required,oneof=B.Tech M.Tech BCA MCA B.Sc M.Sc Other"`
	YearOfStudy string   `validate:"required,oneof=1st 2nd 3rd 4th 5th"`
	CGPA        float64  `validate:"gte=0,lte=10"`
	TechStack   []string `validate:"min=1"`
	ProjectIdea string   `validate:"omitempty,min=50"`
	GitHub      string   `validate:"omitempty,github_profile"`
	LinkedIn    string   `validate:"omitempty,linkedin_profile"`
}

// fieldOrder fixes the order error messages are reported in.
var fieldOrder = []string{
	"FullName", "Email", "PhoneNumber", "CollegeName", "Degree",
	"YearOfStudy", "CGPA", "TechStack", "ProjectIdea", "GitHub", "LinkedIn",
}

// Validate checks a raw submission against the full rule set. On
// success it returns the normalized record: strings trimmed, cgpa a
// number, tech_stack a list (order preserved, duplicates kept). On
// failure the message list names every violation.
func (e *Engine) Validate(sub types.Submission) (types.Participant, []string) {
	sub = normalize(sub)

	byField := e.fieldErrors(sub)
	if len(byField) > 0 {
		return types.Participant{}, orderedMessages(byField)
	}

	return types.Participant{
		FullName:    sub.FullName,
		Email:       sub.Email,
		PhoneNumber: sub.PhoneNumber,
		CollegeName: sub.CollegeName,
		Degree:      sub.Degree,
		YearOfStudy: sub.YearOfStudy,
		CGPA:        sub.CGPA.Value,
		TechStack:   sub.TechStack.Tags,
		OtherSkills: sub.OtherSkills,
		ProjectIdea: sub.ProjectIdea,
		GitHub:      sub.GitHub,
		LinkedIn:    sub.LinkedIn,
	}, nil
}

// fieldErrors evaluates all rules and returns at most one message per
// field, keyed by struct field name. Parse-level diagnostics from the
// loose intake types (malformed tech_stack, non-numeric cgpa) override
// the generic rule messages for their fields.
func (e *Engine) fieldErrors(sub types.Submission) map[string]string {
	rec := record{
		FullName:    sub.FullName,
		Email:       sub.Email,
		PhoneNumber: sub.PhoneNumber,
		CollegeName: sub.CollegeName,
		Degree:      sub.Degree,
		YearOfStudy: sub.YearOfStudy,
		CGPA:        sub.CGPA.Value,
		TechStack:   sub.TechStack.Tags,
		ProjectIdea: sub.ProjectIdea,
		GitHub:      sub.GitHub,
		LinkedIn:    sub.LinkedIn,
	}

	out := make(map[string]string)
	if err := e.v.Struct(rec); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			if _, seen := out[fe.StructField()]; !seen {
				out[fe.StructField()] = message(fe)
			}
		}
	}

	if !sub.CGPA.Present {
		out["CGPA"] = "CGPA is required"
	} else if !sub.CGPA.Valid {
		out["CGPA"] = "CGPA must be between 0 and 10"
	}
	if sub.TechStack.Malformed {
		out["TechStack"] = "Invalid tech_stack format"
	}

	return out
}

func orderedMessages(byField map[string]string) []string {
	msgs := make([]string, 0, len(byField))
	for _, f := range fieldOrder {
		if m, ok := byField[f]; ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// message maps a validator field error to the human-readable text the
// API returns. The texts match the registration form's wording.
func message(fe validator.FieldError) string {
	required := fe.ActualTag() == "required"
	switch fe.StructField() {
	case "FullName":
		return "Full name is required"
	case "Email":
		if required {
			return "Email is required"
		}
		return "Please provide a valid email"
	case "PhoneNumber":
		if required {
			return "Phone number is required"
		}
		return "Phone number must be 10 digits"
	case "CollegeName":
		return "College name is required"
	case "Degree":
		if required {
			return "Degree is required"
		}
		return "Degree must be one of: " + strings.Join(types.Degrees, ", ")
	case "YearOfStudy":
		if required {
			return "Year of study is required"
		}
		return "Year of study must be one of: " + strings.Join(types.Years, ", ")
	case "CGPA":
		return "CGPA must be between 0 and 10"
	case "TechStack":
		return "Please select at least one tech stack"
	case "ProjectIdea":
		return "Project idea must be at least 50 characters if provided"
	case "GitHub":
		return "Please provide a valid GitHub URL"
	case "LinkedIn":
		return "Please provide a valid LinkedIn URL"
	}
	return fmt.Sprintf("field %s is invalid", fe.StructField())
}

// normalize trims all free-text string fields. Tech stack tags are
// kept exactly as submitted.
func normalize(sub types.Submission) types.Submission {
	sub.FullName = strings.TrimSpace(sub.FullName)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.PhoneNumber = strings.TrimSpace(sub.PhoneNumber)
	sub.CollegeName = strings.TrimSpace(sub.CollegeName)
	sub.Degree = strings.TrimSpace(sub.Degree)
	sub.YearOfStudy = strings.TrimSpace(sub.YearOfStudy)
	sub.OtherSkills = strings.TrimSpace(sub.OtherSkills)
	sub.ProjectIdea = strings.TrimSpace(sub.ProjectIdea)
	sub.GitHub = strings.TrimSpace(sub.GitHub)
	sub.LinkedIn = strings.TrimSpace(sub.LinkedIn)
	return sub
}
