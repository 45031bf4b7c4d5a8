package models

import "time"

type Car struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Color string `json:"color"`
}

type Subscription struct {
	ID        string     `json:"id"`
	UserName  string     `json:"userName"`
	Category  string     `json:"category"`
	Active    bool       `json:"active"`
	Cars      []Car      `json:"cars"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *Subscription) HasPlate(plate string) bool {
	for _, c := range s.Cars {
		if c.Plate == plate {
			return true
		}
	}
	return false
}
