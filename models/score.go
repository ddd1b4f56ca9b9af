package models

// XValue is how an inner-ten arrow is stored. It scores 10.
const XValue = 11

// QualificationScore holds one arrow of one end. Value is nil until shot.
type QualificationScore struct {
	ArcherID string `json:"archer_id" yaml:"archer_id"`
	End      int    `json:"end" yaml:"end"`
	Arrow    int    `json:"arrow" yaml:"arrow"`
	Value    *int   `json:"value" yaml:"value"`
}

// RankedArcher is recomputed on every ranking; Seed is positional.
type RankedArcher struct {
	ArcherID string `json:"archer_id" yaml:"archer_id"`
	Total    int    `json:"total" yaml:"total"`
	XCount   int    `json:"x_count" yaml:"x_count"`
	TenCount int    `json:"ten_count" yaml:"ten_count"`
	Seed     int    `json:"seed" yaml:"seed"`
}
