package venues

type VenueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Contact  string `json:"contact"`
}

func (v *Venue) ToResponse() VenueResponse {
	return VenueResponse{
		ID:       v.ID.String(),
		Name:     v.Name,
		Address:  v.Address,
		City:     v.City,
		Capacity: v.Capacity,
		Contact:  v.Contact,
	}
}
