package models

import "strings"

// AgeCategory is one of the eight fixed age tiers.
type AgeCategory string

const (
	CategoryU10      AgeCategory = "u10"
	CategoryU13      AgeCategory = "u13"
	CategoryU15      AgeCategory = "u15"
	CategoryU18      AgeCategory = "u18"
	CategoryU21      AgeCategory = "u21"
	CategorySenior   AgeCategory = "senior"
	CategoryMaster50 AgeCategory = "master50"
	CategoryMaster65 AgeCategory = "master65"
)

// AgeCategories lists the tiers from youngest to oldest.
var AgeCategories = []AgeCategory{
	CategoryU10,
	CategoryU13,
	CategoryU15,
	CategoryU18,
	CategoryU21,
	CategorySenior,
	CategoryMaster50,
	CategoryMaster65,
}

func (c AgeCategory) Valid() bool {
	for _, known := range AgeCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Archer is the flat record the engine works with. Relations coming from
// storage are normalised before they reach this type.
type Archer struct {
	ID        string      `json:"id" yaml:"id"`
	FirstName string      `json:"first_name" yaml:"first_name"`
	LastName  string      `json:"last_name" yaml:"last_name"`
	Club      *string     `json:"club,omitempty" yaml:"club,omitempty"`
	Category  AgeCategory `json:"category" yaml:"category"`
	Gender    Gender      `json:"gender" yaml:"gender"`
}

func (a Archer) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ClubName returns the trimmed club or "" when the archer has none.
func (a Archer) ClubName() string {
	if a.Club == nil {
		return ""
	}
	return strings.TrimSpace(*a.Club)
}
