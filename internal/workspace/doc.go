// Package workspace manages profiles and workspaces: named directories
// under a root, each holding a profile.conf key store.
//
// A workspace additionally carries a .ssh directory of service bundles.
// Each bundle is an INI file with a [base] section of connection defaults
// and one section per environment that overrides some of them:
//
//	[base]
//	ssh_host=bastion.example.com
//	local_port=5432
//
//	[uat]
//	ssh_host=uat.bastion.example.com
//	local_port=5433
//
// ResolveEffectiveConfig produces the merged view for one environment and
// RenderTunnelCommand turns that view into the ssh command that opens the
// tunnel. The package never runs the command.
//
// Entries move through nonexistent, created, renamed or cloned, and
// removed. Creation is staged in a hidden directory and renamed into place
// so a failed Add leaves nothing behind.
package workspace
