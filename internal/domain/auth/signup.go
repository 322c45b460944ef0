package auth

import (
	"regexp"
	"slices"
	"strings"
)

const (
	MsgInvalidEmail    = "Invalid email format."
	MsgInvalidPassword = "Password must be 8-20 characters and include letters and numbers."
)

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordCharset   = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,20}$`)
	passwordHasLetter = regexp.MustCompile(`[A-Za-z]`)
	passwordHasDigit  = regexp.MustCompile(`\d`)
)

var (
	Genders           = []string{"male", "female", "other"}
	Hobbies           = []string{"Reading", "Travelling", "Sports"}
	DefaultSignupRole = RoleEmployee
)

type Signup struct {
	FirstName string
	LastName  string
	Gender    string
	Hobbies   []string
	Role      string
	Email     string
	Password  string
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword accepts 8-20 characters from letters, digits and @$!%*?&,
// with at least one letter and one digit.
func ValidPassword(password string) bool {
	return passwordCharset.MatchString(password) &&
		passwordHasLetter.MatchString(password) &&
		passwordHasDigit.MatchString(password)
}

// Normalize trims free-text fields, applies the default role and drops
// hobbies outside the offered set.
func (s Signup) Normalize() Signup {
	out := s
	out.FirstName = strings.TrimSpace(s.FirstName)
	out.LastName = strings.TrimSpace(s.LastName)
	out.Gender = strings.ToLower(strings.TrimSpace(s.Gender))
	out.Email = strings.TrimSpace(s.Email)
	out.Role = strings.TrimSpace(s.Role)
	if out.Role == "" {
		out.Role = DefaultSignupRole
	}
	out.Hobbies = make([]string, 0, len(s.Hobbies))
	for _, hobby := range s.Hobbies {
		if slices.Contains(Hobbies, hobby) && !slices.Contains(out.Hobbies, hobby) {
			out.Hobbies = append(out.Hobbies, hobby)
		}
	}
	return out
}
