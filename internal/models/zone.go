package models

import "errors"

var ErrZoneIDMissing = errors.New("zone id is missing")

type Zone struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	CategoryID              string   `json:"categoryId"`
	GateIDs                 []string `json:"gateIds,omitempty"`
	TotalSlots              int      `json:"totalSlots"`
	Occupied                int      `json:"occupied"`
	Free                    int      `json:"free"`
	Reserved                int      `json:"reserved"`
	AvailableForVisitors    int      `json:"availableForVisitors"`
	AvailableForSubscribers int      `json:"availableForSubscribers"`
	RateNormal              float64  `json:"rateNormal"`
	RateSpecial             float64  `json:"rateSpecial"`
	Open                    bool     `json:"open"`
}

// Validate checks the fields a pushed zone record must carry before it
// can replace a cached one.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return ErrZoneIDMissing
	}
	return nil
}

// Balanced reports whether the at-rest capacity invariant holds.
func (z *Zone) Balanced() bool {
	return z.Occupied+z.Free == z.TotalSlots && z.Reserved <= z.TotalSlots
}

// Available returns the pool counter that applies to userType.
func (z *Zone) Available(userType UserType) int {
	if userType == UserTypeSubscriber {
		return z.AvailableForSubscribers
	}
	return z.AvailableForVisitors
}
