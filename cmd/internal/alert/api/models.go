package alertapi

type createAlertRequest struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	VisaType string `json:"visaType"`
}

type updateAlertRequest struct {
	Status string `json:"status"`
}
