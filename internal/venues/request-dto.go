package venues

type VenueRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address" validate:"required,max=200"`
	City     string `json:"city" validate:"required,max=200"`
	Capacity int    `json:"capacity" validate:"gt=0"`
	Contact  string `json:"contact" validate:"required,max=200"`
}
