package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainConfig prefixes config hashes. The version suffix allows a future
// change of encoding.
const DomainConfig = "wedged/config/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigHash returns the identity of a configuration value.
// Equal configurations hash equally because encoding/json writes struct
// fields in declaration order.
func ConfigHash(cfg any) (string, []byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", nil, fmt.Errorf("config hash: %w", err)
	}
	return hashWithDomain(DomainConfig, data), data, nil
}
