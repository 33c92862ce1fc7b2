// Package domain contains core domain types for the wattwise bot.
package domain

import (
	"time"
)

// Profile holds the persisted household profile collected during onboarding.
type Profile struct {
	UserID      string    `json:"user_id"`
	ChatRef     string    `json:"chat_ref,omitempty"`
	City        string    `json:"city,omitempty"`
	HomeType    string    `json:"home_type,omitempty"`
	Heating     string    `json:"heating,omitempty"`
	People      string    `json:"people,omitempty"`
	KnowsTariff bool      `json:"knows_tariff"`
	Reminders   bool      `json:"reminders"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Heating types offered by the onboarding keyboard.
const (
	HeatingCentral  = "central"
	HeatingGas      = "gas"
	HeatingElectric = "electric"
	HeatingUnknown  = "unknown"
)

// Household size buckets offered by the onboarding keyboard.
const (
	PeopleOne      = "1"
	PeopleTwo      = "2"
	PeopleThreeUp  = "3-4"
	PeopleFivePlus = "5+"
)

// Onboarded reports whether the profile is complete enough to run the
// analysis and savings journeys: city, home type, heating, and household
// size must all be set.
func (p *Profile) Onboarded() bool {
	if p == nil {
		return false
	}
	return p.City != "" && p.HomeType != "" && p.Heating != "" && p.People != ""
}
