package profile

import (
	"fmt"

	"github.com/ddr4869/fabprofile/config"
)

// ServerNameOverride is the grpc option telling SDKs which name to expect in
// the peer's TLS certificate, since peers are dialed as localhost.
const ServerNameOverride = "ssl-target-name-override"

const cryptoConfigDir = "fablo-target/fabric-config/crypto-config"

// BuildPeers returns an entry for every anchor peer of every org, in org
// order then peer order. A peer address declared twice keeps the last entry.
func BuildPeers(rootPath string, orgs []config.OrgConfig) *PeerMap {
	peers := newPeerMap()
	for _, org := range orgs {
		for _, p := range org.AnchorPeers {
			peers.set(p.Address, Peer{
				URL: fmt.Sprintf("grpcs://localhost:%d", p.Port),
				TLSCACerts: TLSCACerts{
					Path: fmt.Sprintf("%s/%s/peerOrganizations/%s/peers/%s/tls/ca.crt", rootPath, cryptoConfigDir, org.Domain, p.Address),
				},
				GRPCOptions: map[string]string{
					ServerNameOverride: p.Address,
				},
			})
		}
	}
	return peers
}
