// One-off: encrypt a deployer private key into a key file usable with deploy --key-file.
// The key is taken from PRIVATE_KEY or typed in; the password is always typed in.
// Usage: go run ./cmd/encrypt_key -out deployer.ekey -network sepolia
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	helpers "github.com/AlexZinkM/webthree/internal/common"
	"github.com/AlexZinkM/webthree/internal/config"
	"github.com/AlexZinkM/webthree/internal/crypto"
	"github.com/AlexZinkM/webthree/internal/deploy"
	"github.com/AlexZinkM/webthree/internal/model"
)

func main() {
	out := flag.String("out", "", "key file to write (default DEPLOY_KEY_FILE or deployer"+crypto.KeyFileExt+")")
	network := flag.String("network", config.NetworkSepolia, "network the key is meant for")
	flag.Parse()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = config.GetKeyFilePath()
	}
	if path == "" {
		path = "deployer" + crypto.KeyFileExt
	}

	hexKey := config.Get().PrivateKey
	if hexKey == "" {
		raw, err := config.ReadSecret("Private key (hex): ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		hexKey = strings.TrimSpace(string(raw))
		clear(raw)
	}

	key, err := deploy.ParsePrivateKey(hexKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	address := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()

	password, err := readNewPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	qr, err := helpers.AddressQRBase64(address)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qr failed:", err)
		os.Exit(1)
	}

	keyData := &model.KeyData{
		PrivateKey: ethcrypto.FromECDSA(key),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	defer clear(keyData.PrivateKey)

	if err := crypto.EncryptKey(path, *network, address, qr, keyData, password); err != nil {
		fmt.Fprintln(os.Stderr, "encrypt failed:", err)
		os.Exit(1)
	}
	fmt.Printf("%s written for %s\n", path, address)
}

// readNewPassword asks twice and returns the password if both entries match
func readNewPassword() ([]byte, error) {
	defer config.ClearPassword()

	if err := config.PromptForPassword("Password: "); err != nil {
		return nil, err
	}
	first, err := config.GetKeyPasswordBytes()
	if err != nil {
		return nil, err
	}

	if err := config.PromptForPassword("Repeat password: "); err != nil {
		clear(first)
		return nil, err
	}
	second, err := config.GetKeyPasswordBytes()
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if !bytes.Equal(first, second) {
		clear(first)
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}
