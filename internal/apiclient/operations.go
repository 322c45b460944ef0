package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"deptportal/internal/domain/auth"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
)

type LoginResult struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId"`
}

// Complete reports whether the API returned every field a session needs.
func (r LoginResult) Complete() bool {
	return r.Token != "" && r.Role != "" && r.EmployeeID != ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Gender    string   `json:"gender"`
	Hobbies   []string `json:"hobbies"`
	Role      string   `json:"role"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
}

type signupResponse struct {
	Status json.RawMessage `json:"status"`
}

// DepartmentQuery selects either one owner's records or a page of all records.
type DepartmentQuery struct {
	EmployeeID string
	Page       int
	Limit      int
}

func (q DepartmentQuery) values() url.Values {
	values := url.Values{}
	if q.EmployeeID != "" {
		values.Set("employeeId", q.EmployeeID)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", nil, loginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Signup registers a user and reports the truthiness of the returned status.
func (c *Client) Signup(ctx context.Context, s auth.Signup) (bool, error) {
	hobbies := s.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	var out signupResponse
	err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", nil, signupRequest{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Gender:    s.Gender,
		Hobbies:   hobbies,
		Role:      s.Role,
		Email:     s.Email,
		Password:  s.Password,
	}, &out)
	if err != nil {
		return false, err
	}
	return truthy(out.Status), nil
}

func (c *Client) ListDepartments(ctx context.Context, q DepartmentQuery) (department.Page, error) {
	var out department.Page
	err := c.do(ctx, "listDepartments", http.MethodGet, "/api/department/getdata", q.values(), nil, &out)
	if out.Records == nil {
		out.Records = []department.Record{}
	}
	return out, err
}

func (c *Client) CreateDepartment(ctx context.Context, d department.Draft) (department.Record, error) {
	var out department.Record
	err := c.do(ctx, "createDepartment", http.MethodPost, "/api/department/adddata", nil, d, &out)
	return out, err
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, d department.Draft) (department.Record, error) {
	var out department.Record
	err := c.do(ctx, "updateDepartment", http.MethodPost, "/api/department/updatedata", url.Values{"id": {id}}, d, &out)
	return out, err
}

func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.do(ctx, "deleteDepartment", http.MethodDelete, "/api/department/deletedata", url.Values{"id": {id}}, nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, "listUsers", http.MethodGet, "/api/user/getdata", nil, nil, &out)
	if out == nil {
		out = []user.User{}
	}
	return out, err
}

// truthy follows JSON truthiness: false, 0, "", null and absence are false.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", "0", `""`:
		return false
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number != 0
	}
	return true
}
