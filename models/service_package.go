package models

// ServicePackage is one bookable cremation offering from a provider,
// e.g. private cremation, communal cremation, paw-print keepsake.
type ServicePackage struct {
	ID          string  `bson:"id" json:"id"`
	ProviderID  string  `bson:"providerId" json:"providerId"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
}
