package domain

import "encoding/json"

// Direction identifies which end of the page collection a fetch extends
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// RawPage is a page as returned by a paginated JSON API
type RawPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// NextCursor returns the next cursor, or "" when there is none
func (p RawPage) NextCursor() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

// PreviousCursor returns the previous cursor, or "" when there is none
func (p RawPage) PreviousCursor() string {
	if p.Previous == nil {
		return ""
	}
	return *p.Previous
}

// Starship is a SWAPI starship record
type Starship struct {
	Name          string `json:"name"`
	Model         string `json:"model"`
	Manufacturer  string `json:"manufacturer"`
	StarshipClass string `json:"starship_class"`
	URL           string `json:"url"`
}

// Species is a SWAPI species record
type Species struct {
	Name            string `json:"name"`
	Language        string `json:"language"`
	AverageLifespan string `json:"average_lifespan"`
	Classification  string `json:"classification"`
	URL             string `json:"url"`
}

// Person is a SWAPI people record
type Person struct {
	Name      string `json:"name"`
	HairColor string `json:"hair_color"`
	EyeColor  string `json:"eye_color"`
	BirthYear string `json:"birth_year"`
	URL       string `json:"url"`
}

// Post is a blog post
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Comment is a comment on a blog post
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}
