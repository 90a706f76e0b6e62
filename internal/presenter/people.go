// Package presenter turns domain records into their JSON wire shape.
package presenter

import "podium/internal/domain/models"

// PersonResponse is the public card of a person
type PersonResponse struct {
	GUID       string `json:"guid"`
	DiasporaID string `json:"diaspora_id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
}

// Person presents a person, or nil when p is nil
func Person(p *models.Person) *PersonResponse {
	if p == nil {
		return nil
	}
	return &PersonResponse{
		GUID:       p.GUID,
		DiasporaID: p.DiasporaHandle,
		Name:       p.Name,
		Avatar:     p.AvatarURL,
	}
}

// People presents a list of people, never nil
func People(people []models.Person) []PersonResponse {
	out := make([]PersonResponse, 0, len(people))
	for i := range people {
		out = append(out, *Person(&people[i]))
	}
	return out
}
