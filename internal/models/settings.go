// Package models contains the data structures used throughout backsnap.
package models

// Settings holds the fully resolved configuration for one backup run.
// Every field is final: explicit parameter, config file value, or default.
type Settings struct {
	Source           string
	Destination      string
	Exclude          []string
	Encrypt          bool
	Password         string // explicit password, empty unless supplied on the command line
	NamePattern      string
	CompressionLevel int
	KeepLocal        bool
	SecretProvider   string
	Bitwarden        BitwardenSettings
	Vault            VaultSettings
}

// BitwardenSettings holds the Bitwarden CLI provider configuration.
type BitwardenSettings struct {
	Item    string // item name or id passed to "bw get password"
	Session string // injected session token, empty unless the caller owns a session
}

// VaultSettings holds the HashiCorp Vault provider configuration.
type VaultSettings struct {
	Address string // empty falls back to VAULT_ADDR
	Token   string // empty falls back to VAULT_TOKEN
	Mount   string // KV v2 mount, e.g. "secret"
	Path    string // path below the mount
	Field   string // secret field name, defaults to "password"
}

// Params is the explicit invocation parameter set. A nil field means the
// caller did not supply the parameter, which is distinct from supplying its
// zero value; the resolver needs that distinction for precedence.
type Params struct {
	Source           *string
	Destination      *string
	Exclude          []string // nil means not supplied, empty slice means supplied empty
	Encrypt          *bool
	Password         *string
	NamePattern      *string
	CompressionLevel *int
	KeepLocal        *bool
	SecretProvider   *string
	BitwardenItem    *string
	BitwardenSession *string
}

// FileConfig is the parsed JSON configuration file. Absent keys stay nil so
// the resolver can tell "not configured" from "configured empty".
type FileConfig struct {
	Source           *string
	Destination      *string
	Exclude          []string
	Encrypt          *bool
	NamePattern      *string
	CompressionLevel *int
	KeepLocal        *bool
	SecretProvider   *string
	Bitwarden        *BitwardenSettings
	Vault            *VaultSettings
}
