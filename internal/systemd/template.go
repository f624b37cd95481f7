// Package systemd renders the unit file that runs phiscrub watch as a
// service.
package systemd

// WatchTemplate returns the systemd unit template for phiscrub-watch@.service.
// The %i instance specifier is resolved by systemd to a scrub profile name;
// each instance watches /var/lib/phiscrub/%i/inbox.
func WatchTemplate() string {
	return `[Unit]
Description=PHI scrubber inbox watcher (%i)
After=local-fs.target

[Service]
Type=simple
User=phiscrub
Group=phiscrub
Environment=PHISCRUB_LOG_LEVEL=info
ExecStart=/usr/local/bin/phiscrub watch --profile %i --log-format json --inbox /var/lib/phiscrub/%i/inbox --outbox /var/lib/phiscrub/%i/outbox
Restart=on-failure
RestartSec=2
UMask=0077
NoNewPrivileges=true
PrivateTmp=true
PrivateNetwork=true
ProtectSystem=strict
ProtectHome=true
ReadWritePaths=/var/lib/phiscrub/%i

[Install]
WantedBy=multi-user.target
`
}
