package cert

import (
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"
)

// LoadCertsFromFile parses every CERTIFICATE block of a PEM file.
func LoadCertsFromFile(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}

	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse certificate from %s", path)
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, errors.Errorf("failed to decode PEM block from %s", path)
	}
	return certs, nil
}

// LoadCertPoolFromFile builds a root pool from a PEM bundle such as a
// peer's tls/ca.crt.
func LoadCertPoolFromFile(path string) (*x509.CertPool, error) {
	certs, err := LoadCertsFromFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	for _, c := range certs {
		pool.AddCert(c)
	}
	return pool, nil
}
