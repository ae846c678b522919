package models

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
