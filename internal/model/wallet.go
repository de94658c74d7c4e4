package model

// KeyFile represents the encrypted deployer key file structure
type KeyFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeyData represents decrypted key file data
type KeyData struct {
	PrivateKey []byte `json:"privateKey"` // 32 bytes secp256k1 key (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}
