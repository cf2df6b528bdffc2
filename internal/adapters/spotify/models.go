package spotify

// spotifyImage is an image object as returned by the Web API.
type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyFollowers struct {
	Total int `json:"total"`
}

// spotifyArtistRef is the simplified artist embedded in track objects.
type spotifyArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spotifyTrack represents the Spotify API response for a track.
type spotifyTrack struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Artists      []spotifyArtistRef  `json:"artists"`
	Album        spotifyAlbum        `json:"album"`
	DurationMs   int                 `json:"duration_ms"`
	Popularity   int                 `json:"popularity"`
	PreviewURL   string              `json:"preview_url"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
	ExternalIDs  struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

// spotifyArtist is the full artist object of the top-artists endpoint.
type spotifyArtist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Genres       []string            `json:"genres"`
	Followers    spotifyFollowers    `json:"followers"`
	Popularity   int                 `json:"popularity"`
	Images       []spotifyImage      `json:"images"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

// spotifyPlayHistory is one item of the recently-played endpoint.
type spotifyPlayHistory struct {
	Track    spotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
}

// spotifyAudioFeatures is one entry of the audio-features endpoint.
type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
}

type spotifyUser struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	Email        string            `json:"email"`
	Country      string            `json:"country"`
	Product      string            `json:"product"`
	Followers    spotifyFollowers  `json:"followers"`
	Images       []spotifyImage    `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type spotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Public      bool           `json:"public"`
	Images      []spotifyImage `json:"images"`
	Owner       struct {
		DisplayName string `json:"display_name"`
		ID          string `json:"id"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// pagingObject is the envelope of every list endpoint.
type pagingObject[T any] struct {
	Items []T `json:"items"`
}

// errorBody is the Web API's regular error object.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
