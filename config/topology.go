package config

// NetworkSettings holds network-wide settings shared by every organization.
type NetworkSettings struct {
	Paths Paths `yaml:"paths" json:"paths"`
}

// Paths locates the network on the local filesystem.
type Paths struct {
	// ChaincodesBaseDir is the network root; fablo-target lives under it.
	ChaincodesBaseDir string `yaml:"chaincodesBaseDir" json:"chaincodesBaseDir"`
}

// CAConfig describes the certificate authority of an organization.
type CAConfig struct {
	Address    string `yaml:"address" json:"address"`
	ExposePort int    `yaml:"exposePort" json:"exposePort"`
}

// PeerConfig describes one anchor peer.
type PeerConfig struct {
	Address string `yaml:"address" json:"address"`
	Port    int    `yaml:"port" json:"port"`
}

// OrgConfig describes one organization of the network.
type OrgConfig struct {
	Name        string       `yaml:"name" json:"name"`
	MSPName     string       `yaml:"mspName" json:"mspName"`
	Domain      string       `yaml:"domain" json:"domain"`
	CA          CAConfig     `yaml:"ca" json:"ca"`
	AnchorPeers []PeerConfig `yaml:"anchorPeers" json:"anchorPeers"`
}

// Network is the topology file as a whole.
type Network struct {
	Name     string          `yaml:"networkName" json:"networkName"`
	Settings NetworkSettings `yaml:"networkSettings" json:"networkSettings"`
	Orgs     []OrgConfig     `yaml:"orgs" json:"orgs"`
}
