package models

// TokenMetadata holds the immutable token descriptor set once at
// initialization.
type TokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint32 `json:"decimals"`
}
