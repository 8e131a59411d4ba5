package session

import (
	"encoding/json"

	cryptoutil "hrmweb/internal/platform/crypto"
)

// sealData encrypts the whole data map. It holds wizard drafts and one-time
// credentials, which must not sit in the store in clear text.
func sealData(crypto *cryptoutil.Service, data map[string]string) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return crypto.Encrypt(raw)
}

func openData(crypto *cryptoutil.Service, sealed []byte) (map[string]string, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	raw, err := crypto.Decrypt(sealed)
	if err != nil {
		return nil, err
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
