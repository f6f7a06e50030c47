package models

// Restaurant представляет ресторан, принадлежащий аккаунту.
// У одного аккаунта может быть несколько ресторанов.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	AccountID string    `json:"account_id"`
	Uploads   []*Upload `json:"uploads"`
}

// DummyRestaurant используется для приёма данных из JSON-запроса
// на создание или переименование ресторана.
type DummyRestaurant struct {
	Name    string `json:"name" validate:"required,max=128"` // Название ресторана
	LogoURL string `json:"logo_url" validate:"omitempty,url,max=512"`
}
