package models

// Read-only reference data, seeded by migrations and cached at startup.

type TransactionType struct {
	ID   int32  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type PaymentMethod struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Status    string `json:"status"`
	Thumbnail string `json:"thumbnail"`
}

type Tip struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}
