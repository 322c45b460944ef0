package department

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Record struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Location   string `json:"location"`
	Salary     Salary `json:"salary"`
}

// Salary is kept as free-form text; the API may send it as a number or a string.
type Salary string

func (s *Salary) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = Salary(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("salary: %w", err)
	}
	*s = Salary(number.String())
	return nil
}

func (s Salary) String() string {
	return string(s)
}

// Float reports the numeric value when the text parses as a number.
func (s Salary) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Draft is the in-progress form state for creating or editing a record.
type Draft struct {
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Location   string `json:"location"`
	Salary     string `json:"salary"`
}

func DraftFrom(r Record) Draft {
	return Draft{
		EmployeeID: r.EmployeeID,
		Name:       r.Name,
		Category:   r.Category,
		Location:   r.Location,
		Salary:     string(r.Salary),
	}
}

func (d Draft) Trimmed() Draft {
	return Draft{
		EmployeeID: strings.TrimSpace(d.EmployeeID),
		Name:       strings.TrimSpace(d.Name),
		Category:   strings.TrimSpace(d.Category),
		Location:   strings.TrimSpace(d.Location),
		Salary:     strings.TrimSpace(d.Salary),
	}
}

func (d Draft) IsZero() bool {
	return d == Draft{}
}

type Page struct {
	Records    []Record `json:"data"`
	TotalPages int      `json:"totalPages"`
}
