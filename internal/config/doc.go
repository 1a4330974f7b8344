// Package config manages the nodeedit configuration file: named connection
// profiles (URI, user, database and what to load) plus preferences for the
// editor and the query layer.
//
// # File Location
//
//   - $NODEEDIT_CONFIG_DIR/config.yaml when the variable is set
//   - Linux: $XDG_CONFIG_HOME/nodeedit/config.yaml or $HOME/.config/nodeedit/config.yaml
//   - macOS: $HOME/.config/nodeedit/config.yaml
//   - Windows: %APPDATA%\nodeedit\config.yaml
//
// The log file (nodeedit.log) lives in the same directory.
//
// # Security
//
// Passwords are NEVER stored. They come from NEO4J_PASSWORD or a terminal
// prompt (see Password). A config file carrying a password key is rejected
// on load, as is any other unknown key.
//
// # Example
//
//	reg, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	if err := reg.SetProfile("local", &config.Profile{
//	    URI:   "neo4j://localhost:7687",
//	    Label: "Person",
//	}); err != nil {
//	    return err
//	}
//	return reg.Save()
package config
