package models

// Company names are unique regardless of case; the expression index is the
// enforcement point, the service pre-check only produces a nicer error.
type Company struct {
	BaseModel
	Name        string      `gorm:"size:100;not null;uniqueIndex:idx_companies_name_lower,expression:lower(name)" json:"name"`
	Description string      `gorm:"size:1000" json:"description,omitempty"`
	Website     string      `json:"website,omitempty"`
	Location    string      `gorm:"size:100" json:"location,omitempty"`
	LogoURL     string      `json:"logo_url,omitempty"`
	Industry    string      `gorm:"size:100;index" json:"industry,omitempty"`
	Size        CompanySize `gorm:"type:varchar(20)" json:"size,omitempty"`
	Founded     *int        `json:"founded,omitempty"`
	OwnerID     string      `gorm:"type:uuid;not null;index" json:"owner_id"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
