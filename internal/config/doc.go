// Package config loads harbor-ctl's TOML configuration.
//
// Configuration lives in harbor.toml (override with --config). Every key
// has a default, so a missing file is fine:
//
//	state_dir     = "."
//	docks         = [32, 32]
//	dock_choice   = "Emptiest"
//	berthing      = "FirstFit"
//	log_file      = "port.log"
//	overwrite_log = false
//
//	[persistence]
//	backend  = "file"      # or "sqlite"
//	file     = "port.json"
//	database = "harbor.db"
//
//	[simulation]
//	boats_per_day = 5
//	interval      = "5s"
//
//	[log_watch]
//	interval = "2.5s"
//
//	[server]
//	addr = ":8080"
//
// A relative state_dir is taken relative to the config file. File names
// are joined onto state_dir with filepath-securejoin, so a name such as
// "../../etc/passwd" stays inside it.
package config
