package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// UserRole is the access level of a dashboard account
type UserRole int

const (
	UserRoleOperator UserRole = 0
	UserRoleAdmin    UserRole = 1
)

func (r UserRole) String() string {
	switch r {
	case UserRoleAdmin:
		return "admin"
	case UserRoleOperator:
		return "operator"
	}
	return "unknown"
}

// ParseUserRole maps a role name to a UserRole
func ParseUserRole(s string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return UserRoleAdmin, true
	case "operator":
		return UserRoleOperator, true
	}
	return UserRoleOperator, false
}

func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = UserRole(i)
		return nil
	}
	*r, _ = ParseUserRole(str)
	return nil
}

func (r UserRole) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = UserRoleOperator
	case int64:
		*r = UserRole(v)
	case int:
		*r = UserRole(v)
	}
	return nil
}
