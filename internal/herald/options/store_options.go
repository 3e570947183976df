package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// StoreOptions selects the persistence backends.
type StoreOptions struct {
	SessionStore  string `json:"session-store"   mapstructure:"session-store"`
	SessionDBPath string `json:"session-db-path" mapstructure:"session-db-path"`

	PreferencesStore  string `json:"preferences-store"   mapstructure:"preferences-store"`
	PreferencesDBPath string `json:"preferences-db-path" mapstructure:"preferences-db-path"`

	WorkspaceStore  string `json:"workspace-store"   mapstructure:"workspace-store"`
	WorkspaceDBPath string `json:"workspace-db-path" mapstructure:"workspace-db-path"`
	WorkspaceSeed   string `json:"workspace-seed"    mapstructure:"workspace-seed"`
}

func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		SessionStore:      "boltdb",
		SessionDBPath:     "data/sessions.db",
		PreferencesStore:  "sqlite",
		PreferencesDBPath: "data/preferences.db",
		WorkspaceStore:    "boltdb",
		WorkspaceDBPath:   "data/workspace.db",
	}
}

func (o *StoreOptions) Validate() []error {
	var errs []error
	if o.SessionStore != "inmemory" && o.SessionStore != "boltdb" {
		errs = append(errs, fmt.Errorf("--store.session-store %q must be inmemory or boltdb", o.SessionStore))
	}
	if o.PreferencesStore != "inmemory" && o.PreferencesStore != "sqlite" {
		errs = append(errs, fmt.Errorf("--store.preferences-store %q must be inmemory or sqlite", o.PreferencesStore))
	}
	if o.WorkspaceStore != "inmemory" && o.WorkspaceStore != "boltdb" {
		errs = append(errs, fmt.Errorf("--store.workspace-store %q must be inmemory or boltdb", o.WorkspaceStore))
	}
	return errs
}

func (o *StoreOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.SessionStore, "store.session-store", o.SessionStore, "Session backend: inmemory or boltdb.")
	fs.StringVar(&o.SessionDBPath, "store.session-db-path", o.SessionDBPath, "BoltDB file for sessions.")
	fs.StringVar(&o.PreferencesStore, "store.preferences-store", o.PreferencesStore, "Preferences backend: inmemory or sqlite.")
	fs.StringVar(&o.PreferencesDBPath, "store.preferences-db-path", o.PreferencesDBPath, "SQLite file for preferences.")
	fs.StringVar(&o.WorkspaceStore, "store.workspace-store", o.WorkspaceStore, "Calendar, mail and drive backend: inmemory or boltdb.")
	fs.StringVar(&o.WorkspaceDBPath, "store.workspace-db-path", o.WorkspaceDBPath, "BoltDB file for workspace data.")
	fs.StringVar(&o.WorkspaceSeed, "store.workspace-seed", o.WorkspaceSeed, "Optional YAML fixture loaded into the workspace at startup.")
}
