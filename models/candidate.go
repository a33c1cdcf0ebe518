package models

// Source identifies which portal a listing URL belongs to. It is derived
// from the URL alone, so it is known even when extraction fails entirely.
type Source string

const (
	SourceLeboncoin Source = "leboncoin"
	SourceSeloger   Source = "seloger"
	SourceAutre     Source = "autre"
)

// ListingCandidate is the transient output of one extraction pass over a
// listing page. Every content field is optional; nil means the page did not
// yield that field. Source and Blocked are always set. A candidate is built
// once, never mutated, and merged into an Annonce by the caller.
type ListingCandidate struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	Price        *int    `json:"price"`
	Surface      *string `json:"surface"`  // formatted, e.g. "45.5 m²"
	Location     *string `json:"location"` // free text city/postal code
	Rooms        *string `json:"rooms"`    // e.g. "3 pièces"
	Bedrooms     *string `json:"bedrooms"` // e.g. "2 chambres"
	PropertyType *string `json:"property_type"`
	EnergyRating *string `json:"energy_rating"` // DPE letter A-G
	Floor        *string `json:"floor"`         // "4e étage" or "RDC"
	Charges      *string `json:"charges"`       // e.g. "150 €/mois"
	Source       Source  `json:"source"`
	Blocked      bool    `json:"blocked"`
}

// SearchHit is one saved-search result: the listing URL plus whatever
// fields the card exposed, in candidate form.
type SearchHit struct {
	ExternalURL string           `json:"external_url"`
	Candidate   ListingCandidate `json:"candidate"`
}

// FieldCount reports how many content fields extraction populated. Used
// for run records and degraded-result logging.
func (c *ListingCandidate) FieldCount() int {
	n := 0
	for _, p := range []*string{
		c.Title, c.Description, c.ImageURL, c.Surface, c.Location,
		c.Rooms, c.Bedrooms, c.PropertyType, c.EnergyRating, c.Floor, c.Charges,
	} {
		if p != nil {
			n++
		}
	}
	if c.Price != nil {
		n++
	}
	return n
}

// PropertyTypes is the known type vocabulary, checked in order against
// lowercased title then description.
var PropertyTypes = []string{
	"appartement", "maison", "immeuble", "studio", "loft",
	"duplex", "triplex", "terrain", "local commercial", "parking", "garage",
}
