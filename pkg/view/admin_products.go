package view

type AdminImage struct {
	ID        string
	URL       string
	AltText   string
	IsPrimary bool
}
