package profile

// Version is the profile format version understood by Fabric SDKs.
const Version = "1.0.0"

// ConnectionProfile is the client-facing description of a Fabric network
// as seen by one organization.
type ConnectionProfile struct {
	Name                   string                          `json:"name" yaml:"name"`
	Description            string                          `json:"description" yaml:"description"`
	Version                string                          `json:"version" yaml:"version"`
	Client                 Client                          `json:"client" yaml:"client"`
	Organizations          map[string]Organization         `json:"organizations" yaml:"organizations"`
	Peers                  *PeerMap                        `json:"peers" yaml:"peers"`
	CertificateAuthorities map[string]CertificateAuthority `json:"certificateAuthorities" yaml:"certificateAuthorities"`
}

type Client struct {
	Organization string `json:"organization" yaml:"organization"`
}

type Organization struct {
	MSPID                  string   `json:"mspid" yaml:"mspid"`
	Peers                  []string `json:"peers" yaml:"peers"`
	CertificateAuthorities []string `json:"certificateAuthorities" yaml:"certificateAuthorities"`
}

type Peer struct {
	URL         string            `json:"url" yaml:"url"`
	TLSCACerts  TLSCACerts        `json:"tlsCACerts" yaml:"tlsCACerts"`
	GRPCOptions map[string]string `json:"grpcOptions" yaml:"grpcOptions"`
}

type CertificateAuthority struct {
	URL         string      `json:"url" yaml:"url"`
	CAName      string      `json:"caName" yaml:"caName"`
	TLSCACerts  TLSCACerts  `json:"tlsCACerts" yaml:"tlsCACerts"`
	HTTPOptions HTTPOptions `json:"httpOptions" yaml:"httpOptions"`
}

type TLSCACerts struct {
	Path string `json:"path" yaml:"path"`
}

type HTTPOptions struct {
	Verify bool `json:"verify" yaml:"verify"`
}
