package models

// Upload представляет загруженный документ меню, привязанный к ресторану.
// StorageKey и StorageURL указывают на объект в блоб-хранилище,
// CDNURL — публичная ссылка, которую получает посетитель по QR-коду.
type Upload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DocType      string `json:"doc_type"` // тип документа, например menu или winelist
	StorageKey   string `json:"-"`
	StorageURL   string `json:"storage_url"`
	CDNURL       string `json:"cdn_url"`
	RestaurantID string `json:"restaurant_id"`
}

// UploadChain — цепочка владения загрузкой: аккаунт → ресторан → загрузка.
// Возвращается одним явным запросом и используется для проверки прав
// и для вычисления статуса подписки владельца при публичном просмотре.
type UploadChain struct {
	Upload             Upload
	RestaurantID       string
	AccountID          string
	SubscriptionStatus SubscriptionStatus
}
