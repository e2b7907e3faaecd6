package profile

import (
	"fmt"

	"github.com/ddr4869/fabprofile/config"
)

// BuildProfile assembles the connection profile of org. Every peer of orgs is
// listed, including peers of other organizations. The input is trusted as is:
// nothing is validated and no file is touched.
func BuildProfile(networkName string, settings config.NetworkSettings, org config.OrgConfig, orgs []config.OrgConfig) *ConnectionProfile {
	rootPath := settings.Paths.ChaincodesBaseDir
	peers := BuildPeers(rootPath, orgs)

	return &ConnectionProfile{
		Name:        "test-network-org-" + networkName,
		Description: fmt.Sprintf("Connection profile for %s in Fablo network %s", org.Name, networkName),
		Version:     Version,
		Client: Client{
			Organization: org.Name,
		},
		Organizations: map[string]Organization{
			org.Name: {
				MSPID:                  org.MSPName,
				Peers:                  peers.Keys(),
				CertificateAuthorities: []string{org.CA.Address},
			},
		},
		Peers: peers,
		CertificateAuthorities: map[string]CertificateAuthority{
			org.CA.Address: {
				URL:    fmt.Sprintf("http://localhost:%d", org.CA.ExposePort),
				CAName: org.CA.Address,
				TLSCACerts: TLSCACerts{
					Path: fmt.Sprintf("%s/%s/peerOrganizations/%s/ca/%s-cert.pem", rootPath, cryptoConfigDir, org.Domain, org.CA.Address),
				},
				HTTPOptions: HTTPOptions{
					Verify: false,
				},
			},
		},
	}
}
