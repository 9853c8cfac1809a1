package dto

// BoatRequest is the boat form. Nil pointers and empty strings mean "not
// provided".
type BoatRequest struct {
	Brand       string   `json:"brand" validate:"omitempty,max=100"`
	Model       string   `json:"model" validate:"omitempty,max=100"`
	Year        *int     `json:"year" validate:"omitempty,gte=1900"`
	Size        *float64 `json:"size" validate:"omitempty,gt=0,lte=200"`
	Price       string   `json:"price" validate:"omitempty,max=64"`
	Currency    string   `json:"currency" validate:"omitempty,max=3"`
	Location    string   `json:"location" validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Equipment   string   `json:"equipment" validate:"omitempty,max=1000"`
	Owner       string   `json:"owner" validate:"omitempty,max=100"`
	Engine      string   `json:"engine" validate:"omitempty,max=100"`
	EngineHours *int     `json:"engine_hours" validate:"omitempty,gte=0"`
	// Images are URLs returned by the upload endpoint.
	Images []string `json:"images" validate:"omitempty,max=20,dive,required,max=2048"`
}

type AttachImagesRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=20,dive,required,max=2048"`
}
