package config

// ProjectConfig is the decoded jdeploy.toml
type ProjectConfig struct {
	Paths    PathsConfig               `toml:"paths"`
	Params   DeployParams              `toml:"params"`
	Proxy    ProxyConfig               `toml:"proxy"`
	Networks map[string]NetworkEntry   `toml:"networks"`
	Senders  map[string]SenderConfig   `toml:"senders"`
	Explorer map[string]ExplorerConfig `toml:"explorer"`
}

// PathsConfig locates the project files, relative to the project root
type PathsConfig struct {
	Artifacts   string `toml:"artifacts"`
	Config      string `toml:"config"`
	Deployments string `toml:"deployments"`
	Plan        string `toml:"plan"`
}

// DeployParams are the static deployment parameters shared by all steps
type DeployParams struct {
	Verify bool              `toml:"verify"`
	DAO    string            `toml:"dao"`
	Tokens map[string]string `toml:"tokens"`
	Values map[string]string `toml:"values"`
}

// ProxyConfig names the artifacts used for upgradeable deployments
type ProxyConfig struct {
	AdminArtifact string `toml:"admin_artifact"`
	ProxyArtifact string `toml:"proxy_artifact"`
	AdminKey      string `toml:"admin_key"`
}

// NetworkEntry is a network declared in jdeploy.toml
type NetworkEntry struct {
	RPCURL  string `toml:"rpc_url"`
	ChainID uint64 `toml:"chain_id"`
	Sender  string `toml:"sender"`
}

// ExplorerConfig holds block explorer settings for verification
type ExplorerConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// SenderType identifies how a sender signs
type SenderType string

const (
	SenderTypePrivateKey SenderType = "private_key"
	SenderTypeKeystore   SenderType = "keystore"
)

// SenderConfig represents a sender configuration
type SenderConfig struct {
	Type       SenderType `toml:"type"`
	PrivateKey string     `toml:"private_key,omitempty"`
	Keystore   string     `toml:"keystore,omitempty"`
	Password   string     `toml:"password,omitempty"`
	Address    string     `toml:"address,omitempty"`
}

// DefaultSender is used when a network does not name one
const DefaultSender = "deployer"

// Defaults fills unset values
func (c *ProjectConfig) Defaults() {
	if c.Paths.Artifacts == "" {
		c.Paths.Artifacts = "out"
	}
	if c.Paths.Config == "" {
		c.Paths.Config = "config"
	}
	if c.Paths.Deployments == "" {
		c.Paths.Deployments = "deployments"
	}
	if c.Paths.Plan == "" {
		c.Paths.Plan = "deploy/steps.yaml"
	}
	if c.Proxy.AdminArtifact == "" {
		c.Proxy.AdminArtifact = "ProxyAdmin"
	}
	if c.Proxy.ProxyArtifact == "" {
		c.Proxy.ProxyArtifact = "TransparentUpgradeableProxy"
	}
	if c.Proxy.AdminKey == "" {
		c.Proxy.AdminKey = "proxyAdmin"
	}
	if c.Networks == nil {
		c.Networks = make(map[string]NetworkEntry)
	}
	if c.Senders == nil {
		c.Senders = make(map[string]SenderConfig)
	}
	if c.Params.Tokens == nil {
		c.Params.Tokens = make(map[string]string)
	}
	if c.Params.Values == nil {
		c.Params.Values = make(map[string]string)
	}
}
