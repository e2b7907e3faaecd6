package client

import (
	"crypto/tls"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ddr4869/fabprofile/common/cert"
	"github.com/ddr4869/fabprofile/common/logger"
	"github.com/ddr4869/fabprofile/profile"
)

const (
	schemeTLS      = "grpcs://"
	schemeInsecure = "grpc://"
)

// Target turns a profile url such as grpcs://localhost:7051 into a dial
// target and reports whether TLS is expected.
func Target(url string) (target string, secure bool) {
	switch {
	case strings.HasPrefix(url, schemeTLS):
		return strings.TrimPrefix(url, schemeTLS), true
	case strings.HasPrefix(url, schemeInsecure):
		return strings.TrimPrefix(url, schemeInsecure), false
	default:
		return url, true
	}
}

// TransportCredentials returns the credentials a client needs to reach the
// given peer entry.
func TransportCredentials(peer profile.Peer) (credentials.TransportCredentials, error) {
	if _, secure := Target(peer.URL); !secure {
		return insecure.NewCredentials(), nil
	}

	pool, err := cert.LoadCertPoolFromFile(peer.TLSCACerts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load peer TLS root certificate")
	}

	return credentials.NewTLS(&tls.Config{
		RootCAs:    pool,
		ServerName: peer.GRPCOptions[profile.ServerNameOverride],
		MinVersion: tls.VersionTLS12,
	}), nil
}

// NewPeerConn creates a client connection to peerID as described by p. The
// connection is lazy: nothing is dialed until the first RPC.
func NewPeerConn(p *profile.ConnectionProfile, peerID string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	peer, ok := p.Peers.Get(peerID)
	if !ok {
		return nil, errors.Errorf("peer %s not found in profile %s", peerID, p.Name)
	}

	creds, err := TransportCredentials(peer)
	if err != nil {
		return nil, errors.Wrapf(err, "peer %s", peerID)
	}

	target, _ := Target(peer.URL)
	logger.Debugf("creating client for peer %s at %s", peerID, target)

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create client for peer %s", peerID)
	}
	return conn, nil
}
