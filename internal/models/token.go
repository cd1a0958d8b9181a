package models

// Token is an ERC20 token tracked by the token registry.
type Token struct {
	Index   int    `json:"index"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}
