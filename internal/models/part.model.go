package models

// BodyPartOption is a catalog entry pairing an anatomical region with an
// imaging projection. Requests embed copies of these at submission time, so
// later catalog edits never change an already-submitted request.
type BodyPartOption struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Projection string `json:"projection"`
}
