package user

import "strings"

// NameUnavailable is shown when a record's owner does not resolve.
const NameUnavailable = "N/A"

type User struct {
	ID        string   `json:"_id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Gender    string   `json:"gender"`
	Hobbies   []string `json:"hobbies"`
	Role      string   `json:"role"`
	Email     string   `json:"email"`
	Password  string   `json:"-"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Directory resolves user identifiers to display names.
type Directory struct {
	byID map[string]User
}

func NewDirectory(users []User) Directory {
	byID := make(map[string]User, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		if _, seen := byID[u.ID]; !seen {
			byID[u.ID] = u
		}
	}
	return Directory{byID: byID}
}

func (d Directory) Lookup(id string) (User, bool) {
	if id == "" {
		return User{}, false
	}
	u, ok := d.byID[id]
	return u, ok
}

func (d Directory) FullName(id string) string {
	u, ok := d.Lookup(id)
	if !ok {
		return NameUnavailable
	}
	return u.FirstName + " " + u.LastName
}

func (d Directory) Len() int {
	return len(d.byID)
}
