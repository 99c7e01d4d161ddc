package model

// PersonRef is the minimal projection of an actor or director used when
// embedding people into film/series responses.
type PersonRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// GenreRef is the minimal projection of a genre embedded into
// film/series responses.
type GenreRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TitleRef is the minimal projection of a film or series used when
// listing a person's credits.
type TitleRef struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}
