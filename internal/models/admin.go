package models

type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	RateNormal  float64 `json:"rateNormal"`
	RateSpecial float64 `json:"rateSpecial"`
}

type RushHour struct {
	ID      string `json:"id,omitempty"`
	WeekDay int    `json:"weekDay"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type Vacation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleEmployee UserRole = "employee"
)

type User struct {
	ID       string   `json:"id,omitempty"`
	Username string   `json:"username"`
	Name     string   `json:"name,omitempty"`
	Role     UserRole `json:"role"`
	Password string   `json:"password,omitempty"`
}
