package domain

// Image is a provider-hosted picture (avatar, cover art).
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// UserProfile is the authenticated listener's account information.
type UserProfile struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	Email        string            `json:"email,omitempty"`
	Country      string            `json:"country,omitempty"`
	Followers    int               `json:"followers"`
	Images       []Image           `json:"images"`
	Product      string            `json:"product,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Playlist is a user playlist as listed by the provider.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"trackCount"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// TokenSet is the result of an authorization-code exchange or refresh.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
}
