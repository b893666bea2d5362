package model

// Participation role tags, stored as-is
const (
	RoleRealisateur = "realisateur"
	RoleActeur      = "acteur"
)

type Person struct {
	ID  int64  `json:"id_personne"`
	Nom string `json:"nom"`
}

// Participation links a film and a person with a role. A (film, person) pair
// appears at most once; a later write with another role replaces the role.
type Participation struct {
	FilmID   int64  `json:"id_film"`
	PersonID int64  `json:"id_personne"`
	Role     string `json:"role"`
}

// Credits groups the persons attached to one film by role.
type Credits struct {
	Realisateurs []Person `json:"realisateurs"`
	Acteurs      []Person `json:"acteurs"`
}
